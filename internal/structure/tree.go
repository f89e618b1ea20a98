package structure

import (
	"strings"

	"github.com/inodb/vibe-fold/internal/looptree"
)

// buildTree walks [0, n) left to right. An unpaired position becomes a leaf
// (p, p); an opening position p becomes a node (p, partner) whose children
// cover (p+1, partner), and the walk resumes after partner.
func buildTree(n int, partners map[int]int) *looptree.Tree {
	type frame struct {
		parent   looptree.NodeID
		pos, end int
	}

	t := looptree.New()
	stack := []frame{{parent: looptree.Root, pos: 0, end: n}}
	for len(stack) > 0 {
		top := len(stack) - 1
		p := stack[top].pos
		if p >= stack[top].end {
			stack = stack[:top]
			continue
		}

		j, paired := partners[p]
		if !paired {
			t.AddChild(stack[top].parent, looptree.Interval{Start: p, End: p})
			stack[top].pos++
			continue
		}
		id := t.AddChild(stack[top].parent, looptree.Interval{Start: p, End: j})
		stack[top].pos = j + 1
		stack = append(stack, frame{parent: id, pos: p + 1, end: j})
	}
	return t
}

// CompactDotBracket removes the outer pair of every directly stacked pair
// and collapses runs of unpaired positions to a single '.'.
func (s *Structure) CompactDotBracket() string {
	partners := s.pairing.Partners()
	db := s.dotBracket
	drop := make([]bool, len(db))
	for i := 0; i+1 < len(db); i++ {
		if db[i] != '(' || db[i+1] != '(' {
			continue
		}
		j, ok1 := partners[i]
		k, ok2 := partners[i+1]
		if ok1 && ok2 && j-k == 1 {
			drop[i] = true
			drop[j] = true
		}
	}

	var sb strings.Builder
	for i := 0; i < len(db); i++ {
		if drop[i] {
			continue
		}
		if db[i] == '.' && sb.Len() > 0 && sb.String()[sb.Len()-1] == '.' {
			continue
		}
		sb.WriteByte(db[i])
	}
	return sb.String()
}

// CTRow is one row of a connect table: 1-based position, base, and 1-based
// partner position or 0 when unpaired.
type CTRow struct {
	Position int
	Base     byte
	Partner  int
}

// ConnectTable returns one row per residue.
func (s *Structure) ConnectTable() []CTRow {
	rows := make([]CTRow, s.seq.Len())
	for i := range rows {
		rows[i] = CTRow{Position: i + 1, Base: s.seq.At(i)}
	}
	for _, bp := range s.pairing {
		rows[bp.I].Partner = bp.J + 1
		rows[bp.J].Partner = bp.I + 1
	}
	return rows
}
