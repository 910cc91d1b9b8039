package erdos

import "errors"

// Errors
var (
	ErrInputUnreadable  = errors.New("cannot read input file")
	ErrNotPLY           = errors.New("file is not a PLY file")
	ErrBadHeader        = errors.New("malformed PLY header")
	ErrBadVertexRow     = errors.New("malformed PLY vertex row")
	ErrBadFaceRow       = errors.New("malformed PLY face row")
	ErrNonManifold      = errors.New("edge is not shared by exactly two faces")
	ErrBadRotation      = errors.New("rotation walk failed to close")
	ErrBadFaceColor     = errors.New("face color out of range")
	ErrNoStartEdge      = errors.New("no trail start edge with tail in covering tree")
	ErrTrailDiverged    = errors.New("trail walk exceeded edge budget")
	ErrBadCheckpoint    = errors.New("malformed checkpoint")
	ErrCatalogClosed    = errors.New("catalog is closed")
	ErrBadCatalogParam  = errors.New("bad catalog param")
	ErrBadBranchCount   = errors.New("branch count too large for vertex count")
	ErrEmptyMesh        = errors.New("mesh has no faces")
)
