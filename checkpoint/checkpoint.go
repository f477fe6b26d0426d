// Package checkpoint persists a compressed snapshot of the current
// topology and cycle number, so a run can be restarted from the last
// checkpoint instead of from scratch.
package checkpoint

import (
	"bufio"
	"encoding/gob"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/rmera/rsmd/topology"
	"github.com/rmera/rsmd/vec3"
)

// Error is returned when a checkpoint cannot be written or read back.
type Error struct{ message string }

func (e Error) Error() string { return "checkpoint: " + e.message }

// record is the gob-encoded payload; exported fields only, so the zero
// value round-trips cleanly through encoding/gob.
type record struct {
	Cycle      int
	Dimensions [3]float64
	CellNumbers [3]int
	Molecules  []molecule
}

type molecule struct {
	Id   int
	Name string
	Atoms []atom
}

type atom struct {
	Id       int
	Name     string
	Position [3]float64
	Velocity [3]float64
	Extra    map[string]float64
}

// Write serializes top and cycle to path as zstd-compressed gob.
func Write(path string, top *topology.Topology, cycle int) error {
	f, err := os.Create(path)
	if err != nil {
		return Error{fmt.Sprintf("creating %q: %v", path, err)}
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return Error{fmt.Sprintf("opening zstd encoder: %v", err)}
	}
	defer enc.Close()

	rec := toRecord(top, cycle)
	if err := gob.NewEncoder(enc).Encode(rec); err != nil {
		return Error{fmt.Sprintf("encoding checkpoint: %v", err)}
	}
	return nil
}

// Read reconstructs a topology and the cycle it was checkpointed at from
// path.
func Read(path string) (*topology.Topology, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, Error{fmt.Sprintf("opening %q: %v", path, err)}
	}
	defer f.Close()

	dec, err := zstd.NewReader(bufio.NewReader(f))
	if err != nil {
		return nil, 0, Error{fmt.Sprintf("opening zstd decoder: %v", err)}
	}
	defer dec.Close()

	var rec record
	if err := gob.NewDecoder(dec).Decode(&rec); err != nil {
		return nil, 0, Error{fmt.Sprintf("decoding checkpoint: %v", err)}
	}
	return fromRecord(rec), rec.Cycle, nil
}

func toRecord(top *topology.Topology, cycle int) record {
	rec := record{
		Cycle:       cycle,
		Dimensions:  [3]float64{top.Dimensions.X, top.Dimensions.Y, top.Dimensions.Z},
		CellNumbers: top.CellNumbers,
		Molecules:   make([]molecule, len(top.Molecules)),
	}
	for i, m := range top.Molecules {
		mol := molecule{Id: m.Id, Name: m.Name, Atoms: make([]atom, len(m.Atoms))}
		for j, a := range m.Atoms {
			extra := make(map[string]float64, len(a.Extra))
			for k, v := range a.Extra {
				extra[k] = v
			}
			mol.Atoms[j] = atom{
				Id:       a.Id,
				Name:     a.Name,
				Position: [3]float64{a.Position.X, a.Position.Y, a.Position.Z},
				Velocity: [3]float64{a.Velocity.X, a.Velocity.Y, a.Velocity.Z},
				Extra:    extra,
			}
		}
		rec.Molecules[i] = mol
	}
	return rec
}

func vec(v [3]float64) vec3.Vec {
	return vec3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

func fromRecord(rec record) *topology.Topology {
	top := topology.New(vec(rec.Dimensions))
	top.CellNumbers = rec.CellNumbers
	for _, m := range rec.Molecules {
		mol := topology.NewMolecule(m.Id, m.Name)
		for _, a := range m.Atoms {
			mol.AddAtom(&topology.Atom{
				Id:       a.Id,
				Name:     a.Name,
				Position: vec(a.Position),
				Velocity: vec(a.Velocity),
				Extra:    a.Extra,
			})
		}
		top.AddMoleculeValue(mol)
	}
	return top
}
