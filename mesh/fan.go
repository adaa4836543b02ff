package mesh

// fanStep records, for one triangle incident to vertex v, the neighbor that
// precedes v and the neighbor that follows v when walking the triangle's
// vertex order starting at v; i.e. triangle (prev, v, next) in CCW order.
type fanStep struct {
	prev, next int
	tri        int
}

// vertexFanSteps returns, for every triangle incident to v, its fanStep.
func (m *TriMesh) vertexFanSteps(v int) []fanStep {
	var steps []fanStep
	for t, tri := range m.F {
		for k := 0; k < 3; k++ {
			if tri[k] == v {
				steps = append(steps, fanStep{
					prev: tri[(k+2)%3],
					next: tri[(k+1)%3],
					tri:  t,
				})
				break
			}
		}
	}
	return steps
}

// fanOrder walks the triangle fan of vertex v starting from the triangle
// whose "prev" neighbor is start, chaining steps by prev->next. It returns
// the ordered neighbor sequence (beginning with start) and the triangle
// between each consecutive pair. The walk stops when it returns to start
// (closed fan, v interior) or when no continuing step exists (open fan, v
// boundary).
func (m *TriMesh) fanOrder(v, start int) (neighbors []int, trisBetween []int, closed bool) {
	steps := m.vertexFanSteps(v)
	byPrev := make(map[int]fanStep, len(steps))
	for _, s := range steps {
		byPrev[s.prev] = s
	}

	cur := start
	neighbors = append(neighbors, cur)
	for i := 0; i < len(steps)+1; i++ {
		s, ok := byPrev[cur]
		if !ok {
			return neighbors, trisBetween, false
		}
		trisBetween = append(trisBetween, s.tri)
		if s.next == start {
			return neighbors, trisBetween, true
		}
		neighbors = append(neighbors, s.next)
		cur = s.next
	}
	return neighbors, trisBetween, false
}
