package libatrail

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"

	"github.com/erdos-dna/erdos/erdos"
)

// The PLY header is a little line grammar: a magic line, element
// declarations, and arbitrary lines (format, property, comment) that we
// carry but don't interpret. Body rows are plain whitespace-separated
// numbers and are scanned directly.

var sPlyLexer = lexer.MustSimple([]lexer.SimpleRule{
	{"EOL", `\r?\n`},
	{"Number", `[-+]?[0-9]*\.?[0-9]+([eE][-+]?[0-9]+)?`},
	{"Ident", `[A-Za-z_][A-Za-z0-9_.]*`},
	{"Punct", `[^ \t\r\n]`},
	{"whitespace", `[ \t]+`},
})

type plyHeader struct {
	Lines []*headerLine `@@*`
}

type headerLine struct {
	Element *elementDecl `( @@`
	Format  *formatDecl  `| @@`
	Tokens  []string     `| (@Ident | @Number | @Punct)* ) EOL`
}

type elementDecl struct {
	Kind  string   `"element" @Ident`
	Count int      `@Number`
	Rest  []string `(@Ident | @Number | @Punct)*`
}

type formatDecl struct {
	Encoding string   `"format" @Ident`
	Rest     []string `(@Ident | @Number | @Punct)*`
}

var sParsePlyHeader = participle.MustBuild[plyHeader](
	participle.Lexer(sPlyLexer),
	participle.UseLookahead(2),
)

// ParsePLY reads an ASCII PLY stream: header through end_header, then the
// declared number of vertex rows and face rows. Unknown header lines are
// ignored, as are non-numeric tokens inside body rows.
func ParsePLY(r io.Reader) (*Mesh, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !sc.Scan() {
		return nil, erdos.ErrNotPLY
	}
	first := sc.Text()
	if !strings.HasPrefix(first, "ply") {
		return nil, erdos.ErrNotPLY
	}

	var header strings.Builder
	header.WriteString(first)
	header.WriteByte('\n')

	sawEnd := false
	for sc.Scan() {
		line := sc.Text()
		header.WriteString(line)
		header.WriteByte('\n')
		if strings.HasPrefix(line, "end_header") {
			sawEnd = true
			break
		}
	}
	if !sawEnd {
		return nil, errors.Wrap(erdos.ErrBadHeader, "missing end_header")
	}

	parsed, err := sParsePlyHeader.ParseString("", header.String())
	if err != nil {
		return nil, errors.Wrapf(erdos.ErrBadHeader, "%v", err)
	}

	vertexCount, faceCount := -1, -1
	for _, line := range parsed.Lines {
		if line.Element == nil {
			continue
		}
		switch line.Element.Kind {
		case "vertex":
			vertexCount = line.Element.Count
		case "face":
			faceCount = line.Element.Count
		}
	}
	if vertexCount < 0 || faceCount < 0 {
		return nil, errors.Wrap(erdos.ErrBadHeader, "missing element vertex/face declaration")
	}

	mesh := &Mesh{
		Vertices: make([][]float64, 0, vertexCount),
		Faces:    make([][]int, 0, faceCount),
	}

	for i := 0; i < vertexCount; i++ {
		if !sc.Scan() {
			return nil, errors.Wrapf(erdos.ErrBadVertexRow, "row %d missing", i)
		}
		var coords []float64
		for _, tok := range strings.Fields(sc.Text()) {
			if c, err := strconv.ParseFloat(tok, 64); err == nil {
				coords = append(coords, c)
			}
		}
		mesh.Vertices = append(mesh.Vertices, coords)
	}

	for i := 0; i < faceCount; i++ {
		if !sc.Scan() {
			return nil, errors.Wrapf(erdos.ErrBadFaceRow, "row %d missing", i)
		}
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			return nil, errors.Wrapf(erdos.ErrBadFaceRow, "row %d empty", i)
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil || n < 3 {
			return nil, errors.Wrapf(erdos.ErrBadFaceRow, "row %d has bad vertex count %q", i, fields[0])
		}
		var verts []int
		for _, tok := range fields[1:] {
			if v, err := strconv.Atoi(tok); err == nil {
				verts = append(verts, v)
			}
		}
		if len(verts) < n {
			return nil, errors.Wrapf(erdos.ErrBadFaceRow, "row %d declares %d vertices, has %d", i, n, len(verts))
		}
		mesh.Faces = append(mesh.Faces, verts[:n])
	}

	return mesh, sc.Err()
}
