package meshio

import (
	"strings"
	"testing"
)

const offSquare = `OFF
4 2 0
0 0 0
1 0 0
1 1 0
0 1 0
3 0 1 2
3 0 2 3
`

func TestReadOFF(t *testing.T) {
	m, err := ReadOFF(strings.NewReader(offSquare))
	if err != nil {
		t.Fatalf("ReadOFF failed: %v", err)
	}
	if len(m.VRest) != 4 || len(m.F) != 2 {
		t.Fatalf("expected 4 vertices, 2 faces, got %d verts %d faces", len(m.VRest), len(m.F))
	}
}

func TestReadOFFRejectsBadHeader(t *testing.T) {
	if _, err := ReadOFF(strings.NewReader("not-off\n4 2 0\n")); err == nil {
		t.Fatal("expected error for missing OFF header")
	}
}

func TestWriteOFFRoundTrips(t *testing.T) {
	m, err := ReadOFF(strings.NewReader(offSquare))
	if err != nil {
		t.Fatalf("ReadOFF failed: %v", err)
	}
	var buf strings.Builder
	if err := WriteOFF(&buf, m); err != nil {
		t.Fatalf("WriteOFF failed: %v", err)
	}
	m2, err := ReadOFF(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("re-reading written OFF failed: %v", err)
	}
	if len(m2.VRest) != len(m.VRest) || len(m2.F) != len(m.F) {
		t.Fatal("round-tripped mesh has different vertex/face counts")
	}
}

const objSquareWithUV = `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
f 1/1 2/2 3/3
f 1/1 3/3 4/4
`

func TestReadOBJWithUV(t *testing.T) {
	m, err := ReadOBJ(strings.NewReader(objSquareWithUV))
	if err != nil {
		t.Fatalf("ReadOBJ failed: %v", err)
	}
	if len(m.VRest) != 4 || len(m.F) != 2 {
		t.Fatalf("expected 4 verts 2 faces, got %d/%d", len(m.VRest), len(m.F))
	}
	if m.UV == nil {
		t.Fatal("expected UV map to be populated")
	}
	if m.UV[2].X != 1 || m.UV[2].Y != 1 {
		t.Fatalf("expected UV[2]=(1,1), got %v", m.UV[2])
	}
}

func TestTutteEmbedSquareStaysInDisk(t *testing.T) {
	m, err := ReadOFF(strings.NewReader(offSquare))
	if err != nil {
		t.Fatalf("ReadOFF failed: %v", err)
	}
	uv, err := TutteEmbed(m.VRest, m.F)
	if err != nil {
		t.Fatalf("TutteEmbed failed: %v", err)
	}
	if len(uv) != 4 {
		t.Fatalf("expected 4 UV positions, got %d", len(uv))
	}
	for _, p := range uv {
		if p.Norm() > 1.001 {
			t.Fatalf("expected all UVs within the unit disk, got %v (norm %v)", p, p.Norm())
		}
	}
}

func TestReadSeamWeightsAndApply(t *testing.T) {
	w, err := ReadSeamWeights(strings.NewReader("0,1.0,2,0.5"), 4)
	if err != nil {
		t.Fatalf("ReadSeamWeights failed: %v", err)
	}
	if w[0] != 1.0 || w[2] != 0.5 || w[1] != 0 || w[3] != 0 {
		t.Fatalf("unexpected parsed weights: %v", w)
	}
	amplified := ApplySeamWeights(w, 100)
	if amplified[0] != 100 {
		t.Fatalf("expected vertex 0 amplified to max seam weight 100, got %v", amplified[0])
	}
	if amplified[1] != 1 {
		t.Fatalf("expected unmentioned vertex weight to stay 1, got %v", amplified[1])
	}
}
