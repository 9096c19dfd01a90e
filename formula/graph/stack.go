package graph

// Stack keeps the nodes being evaluated, from the outermost to the
// innermost one.
type Stack struct {
	list []*Node
	set  map[*Node]int
}

func NewStack() *Stack {
	return &Stack{
		set: make(map[*Node]int),
	}
}

func (s *Stack) Len() int {
	return len(s.list)
}

func (s *Stack) Has(n *Node) bool {
	_, ok := s.set[n]
	return ok
}

func (s *Stack) Push(n *Node) {
	s.set[n] = len(s.list)
	s.list = append(s.list, n)
}

func (s *Stack) Pop() {
	n := len(s.list)
	if n == 0 {
		return
	}
	delete(s.set, s.list[n-1])
	s.list = s.list[:n-1]
}

// From gives the nodes pushed since n, n included.
func (s *Stack) From(n *Node) []*Node {
	ix, ok := s.set[n]
	if !ok {
		return nil
	}
	return s.list[ix:]
}
