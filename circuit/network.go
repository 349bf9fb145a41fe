package circuit

import (
	"errors"
	"fmt"

	"github.com/nf/icx/intcode"
)

// NAT is the address of the network's NAT.
const NAT = 255

// ErrAddress is returned when a node sends a packet to an address
// that is neither a node nor the NAT.
var ErrAddress = errors.New("unknown address")

// Packet is an (X, Y) pair sent between network addresses.
type Packet struct {
	From, To int
	X, Y     int64
}

func (p Packet) String() string {
	return fmt.Sprintf("%d -> %d: (%d, %d)", p.From, p.To, p.X, p.Y)
}

// Network is a set of nodes, each running its own copy of a program,
// that exchange packets. A node sends a packet by writing three values:
// the destination address, X, and Y. A node reading with no packet
// waiting receives -1.
//
// Packets sent to the NAT are held; when a round passes in which no
// packets are sent or received the NAT sends the last packet it holds
// to node 0.
type Network struct {
	Nodes []*intcode.Machine
	Logf  func(format string, args ...any)

	queues  [][]Packet
	partial [][]int64 // output values that do not yet form a packet
	nat     *Packet
}

// Round describes the traffic in one round of the network.
type Round struct {
	Sent []Packet
	Wake *Packet // sent by the NAT at the end of the round, if idle
}

// NewNetwork returns a Network of size nodes. Each node is a clone of
// prog with its address queued as input. Packets to NAT are never
// delivered to a node, so size should not exceed NAT.
func NewNetwork(prog *intcode.Machine, size int) *Network {
	n := &Network{
		Logf:    Nopf,
		queues:  make([][]Packet, size),
		partial: make([][]int64, size),
	}
	for i := 0; i < size; i++ {
		m := prog.Clone()
		m.Push(int64(i))
		n.Nodes = append(n.Nodes, m)
	}
	return n
}

// Step runs every node until it halts or waits for input, routes the
// packets they sent, and gives each node its next packet (or -1).
func (n *Network) Step() (Round, error) {
	var (
		r      Round
		halted = 0
		logf   = n.Logf
	)
	if logf == nil {
		logf = Nopf
	}
	for i, m := range n.Nodes {
		if m.State() == intcode.Halted {
			halted++
			continue
		}
		if _, err := m.Run(); err != nil {
			return r, fmt.Errorf("node %d: %w", i, err)
		}
		buf := append(n.partial[i], m.TakeOutput()...)
		for ; len(buf) >= 3; buf = buf[3:] {
			p := Packet{From: i, To: int(buf[0]), X: buf[1], Y: buf[2]}
			switch {
			case p.To == NAT:
				n.nat = &p
			case p.To >= 0 && p.To < len(n.Nodes):
				n.queues[p.To] = append(n.queues[p.To], p)
			default:
				return r, fmt.Errorf("node %d: %w %d", i, ErrAddress, buf[0])
			}
			logf("send %v", p)
			r.Sent = append(r.Sent, p)
		}
		n.partial[i] = buf
	}
	if halted == len(n.Nodes) {
		return r, fmt.Errorf("all nodes: %w", ErrNoOutput)
	}

	idle := len(r.Sent) == 0
	for i, m := range n.Nodes {
		q := n.queues[i]
		if m.State() == intcode.Halted {
			n.queues[i] = nil
			continue
		}
		if len(q) == 0 {
			m.Push(-1)
			continue
		}
		idle = false
		m.Push(q[0].X, q[0].Y)
		n.queues[i] = q[1:]
	}
	if idle && n.nat != nil && len(n.Nodes) > 0 {
		p := Packet{From: NAT, To: 0, X: n.nat.X, Y: n.nat.Y}
		n.queues[0] = append(n.queues[0], p)
		logf("wake %v", p)
		r.Wake = &p
	}
	return r, nil
}

// FirstNAT runs the network until a packet is sent to the NAT,
// and returns that packet.
func (n *Network) FirstNAT() (Packet, error) {
	for round := 0; round < MaxRounds; round++ {
		r, err := n.Step()
		if err != nil {
			return Packet{}, err
		}
		for _, p := range r.Sent {
			if p.To == NAT {
				return p, nil
			}
		}
	}
	return Packet{}, ErrRounds
}

// RepeatedNAT runs the network until the NAT wakes node 0 with the
// same Y value twice in a row, and returns that packet.
func (n *Network) RepeatedNAT() (Packet, error) {
	var prev *Packet
	for round := 0; round < MaxRounds; round++ {
		r, err := n.Step()
		if err != nil {
			return Packet{}, err
		}
		if w := r.Wake; w != nil {
			if prev != nil && prev.Y == w.Y {
				return *w, nil
			}
			prev = w
		}
	}
	return Packet{}, ErrRounds
}
