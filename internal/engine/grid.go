package engine

// sign is the tri-state polarity consensus of a cell's neighborhood.
type sign uint8

const (
	signNone sign = iota
	signNegative
	signPositive
)

// grid is the downsampled per-cell state: a signed last-event timestamp
// (sign encodes polarity, zero means never touched), the last consensus
// sign, and one timeline per cell. Cells are indexed row-major.
type grid struct {
	signedTimestamps []float64
	signs            []sign
	timelines        []timeline
}

func newGrid() *grid {
	g := &grid{
		signedTimestamps: make([]float64, GridCells),
		signs:            make([]sign, GridCells),
		timelines:        make([]timeline, GridCells),
	}
	for i := range g.timelines {
		g.timelines[i].reset()
	}
	return g
}

// apply records one event at downsampled cell (x, y) and, for interior
// cells, runs the consensus scan. A confirmed change of the locally
// consistent sign pushes t into the cell's timeline.
func (g *grid) apply(t uint64, x, y uint16, on bool) {
	index := int(x) + int(y)*GridWidth
	if on {
		g.signedTimestamps[index] = float64(t)
	} else {
		g.signedTimestamps[index] = -float64(t)
	}
	if x < SignCheckRadius || x >= GridWidth-SignCheckRadius ||
		y < SignCheckRadius || y >= GridHeight-SignCheckRadius {
		return
	}

	s := g.consensus(x, y)
	if s == signNone {
		return
	}
	previous := g.signs[index]
	if previous != signNone && previous != s {
		g.timelines[index].push(t)
	}
	g.signs[index] = s
}

// consensus scans the (2r+1)x(2r+1) neighborhood of an interior cell. An
// untouched neighbor or a polarity contradiction anywhere in the window
// invalidates the scan; there is no partial result.
func (g *grid) consensus(x, y uint16) sign {
	s := signNone
	for wy := y - SignCheckRadius; wy <= y+SignCheckRadius; wy++ {
		for wx := x - SignCheckRadius; wx <= x+SignCheckRadius; wx++ {
			wt := g.signedTimestamps[int(wx)+int(wy)*GridWidth]
			if wt == 0 {
				return signNone
			}
			if wt < 0 {
				if s == signPositive {
					return signNone
				}
				s = signNegative
			} else {
				if s == signNegative {
					return signNone
				}
				s = signPositive
			}
		}
	}
	return s
}
