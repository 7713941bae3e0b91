package esiio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/dbrunet-lab/esicore/esierr"
)

// Writer appends matrices to an on-disk inverse-solution container
// after its full header has been written (§6). Matrices must be
// appended in increasing regularization order (§5 "Ordering
// guarantees"); Writer does not reorder or buffer them.
type Writer struct {
	f       *os.File
	path    string
	header  Header
	written int
}

// Create opens path, writes the fixed-plus-variable header in full,
// and returns a Writer ready to accept BodyCount() matrices via
// WriteMatrix.
func Create(path string, header Header) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, &esierr.FileError{Path: path, Err: err}
	}
	w := &Writer{f: f, path: path, header: header}
	if err := w.writeHeader(); err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

func (w *Writer) writeHeader() error {
	h := w.header
	buf := make([]byte, 0, fixedHeaderSize)
	buf = append(buf, magic...)
	buf = appendInt32(buf, int32(h.NumEl))
	buf = appendInt32(buf, int32(h.NumSolp))
	buf = appendInt32(buf, int32(h.NumReg))
	buf = append(buf, 0) // invscal: always 3-rows-per-sp (§6)
	if err := w.write(buf); err != nil {
		return err
	}

	for i := 0; i < h.NumEl; i++ {
		name, err := padName(electrodeName(h, i), electrodeNameSize)
		if err != nil {
			return w.fail(err)
		}
		if err := w.write(name); err != nil {
			return err
		}
	}
	for i := 0; i < h.NumSolp; i++ {
		name, err := padName(spName(h, i), solutionPointNameSize)
		if err != nil {
			return w.fail(err)
		}
		if err := w.write(name); err != nil {
			return err
		}
	}
	body := h.BodyCount()
	for i := 0; i < body; i++ {
		v := 0.0
		if i < len(h.RegValues) {
			v = h.RegValues[i]
		}
		var buf8 [8]byte
		binary.LittleEndian.PutUint64(buf8[:], math.Float64bits(v))
		if err := w.write(buf8[:]); err != nil {
			return err
		}
	}
	for i := 0; i < body; i++ {
		name, err := padName(regName(h, i), regularizationNameSize)
		if err != nil {
			return w.fail(err)
		}
		if err := w.write(name); err != nil {
			return err
		}
	}
	return nil
}

// WriteMatrix appends J (3*NumSolp x NumEl, rejected-source rows
// already zeroed by the caller per §3's invariant) as the next
// regularization level's body matrix, row-major float32.
func (w *Writer) WriteMatrix(J *mat.Dense) error {
	if w.written >= w.header.BodyCount() {
		return fmt.Errorf("esiio: all %d matrices already written", w.header.BodyCount())
	}
	rows, cols := J.Dims()
	if rows != dimsp*w.header.NumSolp || cols != w.header.NumEl {
		return fmt.Errorf("esiio: matrix is %dx%d, want %dx%d", rows, cols, dimsp*w.header.NumSolp, w.header.NumEl)
	}

	buf := make([]byte, 4*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			binary.LittleEndian.PutUint32(buf[4*c:], math.Float32bits(float32(J.At(r, c))))
		}
		if err := w.write(buf); err != nil {
			return err
		}
	}
	w.written++
	return nil
}

// Close closes the underlying file. Per §5, no retry is attempted on
// a prior write failure; Close only releases the descriptor.
func (w *Writer) Close() error {
	return w.f.Close()
}

func (w *Writer) write(b []byte) error {
	if _, err := w.f.Write(b); err != nil {
		w.f.Close()
		return &esierr.FileError{Path: w.path, Err: err}
	}
	return nil
}

func (w *Writer) fail(err error) error {
	w.f.Close()
	return &esierr.FileError{Path: w.path, Err: err}
}

func appendInt32(buf []byte, v int32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	return append(buf, b[:]...)
}

func padName(name string, size int) ([]byte, error) {
	if len(name) > size {
		return nil, fmt.Errorf("esiio: name %q exceeds %d bytes", name, size)
	}
	b := make([]byte, size)
	copy(b, name)
	return b, nil
}

// WriteStack is the common case: open, write every matrix in order,
// close. On any failure the file is left closed at whatever point the
// error occurred (§7 FileIO) and the error is returned as-is.
func WriteStack(path string, header Header, matrices []*mat.Dense) error {
	w, err := Create(path, header)
	if err != nil {
		return err
	}
	for _, J := range matrices {
		if err := w.WriteMatrix(J); err != nil {
			w.f.Close()
			return err
		}
	}
	return w.Close()
}

var _ io.Closer = (*Writer)(nil)
