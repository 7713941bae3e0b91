package esiio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/dbrunet-lab/esicore/esierr"
)

// Stack is the fully materialized in-memory form of a read-back
// container, used by tests and by callers that want the whole file at
// once rather than streaming it.
type Stack struct {
	Header   Header
	Matrices []*mat.Dense
}

// Read loads the entire container at path.
func Read(path string) (*Stack, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &esierr.FileError{Path: path, Err: err}
	}
	defer f.Close()

	fail := func(err error) (*Stack, error) { return nil, &esierr.FileError{Path: path, Err: err} }

	fixed := make([]byte, fixedHeaderSize)
	if _, err := io.ReadFull(f, fixed); err != nil {
		return fail(err)
	}
	if !bytes.Equal(fixed[:4], []byte(magic)) {
		return fail(fmt.Errorf("bad magic %q", fixed[:4]))
	}
	h := Header{
		NumEl:   int(int32(binary.LittleEndian.Uint32(fixed[4:8]))),
		NumSolp: int(int32(binary.LittleEndian.Uint32(fixed[8:12]))),
		NumReg:  int(int32(binary.LittleEndian.Uint32(fixed[12:16]))),
	}
	// fixed[16] is invscal; always 0 (dimsp=3) in this implementation.

	h.ElectrodeNames = make([]string, h.NumEl)
	for i := range h.ElectrodeNames {
		name, err := readName(f, electrodeNameSize)
		if err != nil {
			return fail(err)
		}
		h.ElectrodeNames[i] = name
	}
	h.SPNames = make([]string, h.NumSolp)
	for i := range h.SPNames {
		name, err := readName(f, solutionPointNameSize)
		if err != nil {
			return fail(err)
		}
		h.SPNames[i] = name
	}

	body := h.BodyCount()
	h.RegValues = make([]float64, body)
	for i := range h.RegValues {
		var buf [8]byte
		if _, err := io.ReadFull(f, buf[:]); err != nil {
			return fail(err)
		}
		h.RegValues[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[:]))
	}
	h.RegNames = make([]string, body)
	for i := range h.RegNames {
		name, err := readName(f, regularizationNameSize)
		if err != nil {
			return fail(err)
		}
		h.RegNames[i] = name
	}

	rows, cols := dimsp*h.NumSolp, h.NumEl
	matrices := make([]*mat.Dense, body)
	rowBuf := make([]byte, 4*cols)
	for m := 0; m < body; m++ {
		J := mat.NewDense(rows, cols, nil)
		for r := 0; r < rows; r++ {
			if _, err := io.ReadFull(f, rowBuf); err != nil {
				return fail(err)
			}
			for c := 0; c < cols; c++ {
				bits := binary.LittleEndian.Uint32(rowBuf[4*c:])
				J.Set(r, c, float64(math.Float32frombits(bits)))
			}
		}
		matrices[m] = J
	}

	return &Stack{Header: h, Matrices: matrices}, nil
}

func readName(f *os.File, size int) (string, error) {
	buf := make([]byte, size)
	if _, err := io.ReadFull(f, buf); err != nil {
		return "", err
	}
	end := bytes.IndexByte(buf, 0)
	if end < 0 {
		end = size
	}
	return string(buf[:end]), nil
}
