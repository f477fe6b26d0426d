// Package cellindex builds the 3-D uniform spatial grid ("cell list") used
// to enumerate nearby molecules under periodic boundary conditions without
// a brute-force O(N^k) scan.
package cellindex

import (
	"fmt"
	"math"

	"github.com/rmera/rsmd/topology"
	"github.com/rmera/rsmd/vec3"
)

// Error is returned when a topology cannot be indexed because of a
// non-positive grid shape. A non-positive box is reported by the error
// from vec3.CheckBox instead.
type Error struct{ message string }

func (e Error) Error() string { return "cellindex: " + e.message }

// Index is a 3-D grid of cells, each holding the molecules whose first atom
// falls in it, plus a precomputed 27-cell (3x3x3, PBC-wrapped) neighbour
// stencil per cell.
type Index struct {
	nx, ny, nz int
	cells      [][]*topology.Molecule
	neighbours [][]int // each cell's flat list of its own 27 neighbour cell indices (with repeats when nx|ny|nz < 3)
}

// Build indexes top's molecules into the grid described by top.CellNumbers.
func Build(top *topology.Topology) (*Index, error) {
	nx, ny, nz := top.CellNumbers[0], top.CellNumbers[1], top.CellNumbers[2]
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return nil, Error{fmt.Sprintf("grid shape must be positive, got (%d, %d, %d)", nx, ny, nz)}
	}
	if err := vec3.CheckBox(top.Dimensions); err != nil {
		return nil, err
	}

	idx := &Index{
		nx:    nx,
		ny:    ny,
		nz:    nz,
		cells: make([][]*topology.Molecule, nx*ny*nz),
	}

	for _, m := range top.Molecules {
		if len(m.Atoms) == 0 {
			continue
		}
		p := m.Atoms[0].Position
		fx := vec3.Frac(p.X, top.Dimensions.X)
		fy := vec3.Frac(p.Y, top.Dimensions.Y)
		fz := vec3.Frac(p.Z, top.Dimensions.Z)

		cx := clampCell(int(math.Floor(fx*float64(nx))), nx)
		cy := clampCell(int(math.Floor(fy*float64(ny))), ny)
		cz := clampCell(int(math.Floor(fz*float64(nz))), nz)

		linear := cx + cy*nx + cz*nx*ny
		idx.cells[linear] = append(idx.cells[linear], m)
	}

	idx.neighbours = make([][]int, nx*ny*nz)
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				self := i + j*nx + k*nx*ny
				var neigh []int
				for _, ni := range []int{i, wrap(i+1, nx), wrap(i-1, nx)} {
					for _, nj := range []int{j, wrap(j+1, ny), wrap(j-1, ny)} {
						for _, nk := range []int{k, wrap(k+1, nz), wrap(k-1, nz)} {
							neigh = append(neigh, ni+nj*nx+nk*nx*ny)
						}
					}
				}
				idx.neighbours[self] = neigh
			}
		}
	}

	return idx, nil
}

// clampCell guards against a fractional coordinate landing exactly at 1.0
// due to floating point rounding, which would otherwise produce an
// out-of-range cell index.
func clampCell(n, size int) int {
	if n < 0 {
		return 0
	}
	if n >= size {
		return size - 1
	}
	return n
}

// wrap computes n mod N with PBC wrap-around, always returning a
// non-negative result: ((n mod N) + N) mod N.
func wrap(n, N int) int {
	return ((n % N) + N) % N
}

// NCells returns the total number of cells in the grid (Nx*Ny*Nz).
func (idx *Index) NCells() int { return len(idx.cells) }

// Cell returns the molecules in cell cellNum whose name matches name.
func (idx *Index) Cell(cellNum int, name string) []*topology.Molecule {
	var out []*topology.Molecule
	for _, m := range idx.cells[cellNum] {
		if m.Name == name {
			out = append(out, m)
		}
	}
	return out
}

// CellNeighbours returns the flat list, across the cell's full 27-cell
// neighbourhood (including itself), of molecules matching name, paired with
// the (linear) index of the cell each molecule actually came from.
func (idx *Index) CellNeighbours(cellNum int, name string) (molecules []*topology.Molecule, fromCell []int) {
	for _, n := range idx.neighbours[cellNum] {
		for _, m := range idx.cells[n] {
			if m.Name == name {
				molecules = append(molecules, m)
				fromCell = append(fromCell, n)
			}
		}
	}
	return molecules, fromCell
}
