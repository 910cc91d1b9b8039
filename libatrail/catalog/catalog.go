package catalog

import (
	"bytes"
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"

	"github.com/erdos-dna/erdos/erdos"
)

/***

Routing catalog database format:

	gCatalogStateKey => catalogState (varint-packed)

	'r', shape, NUL, branch (varint), color (byte)  => route value

A route value is the 0-based trail vertex sequence as a space-separated
decimal line, prefixed by a crossing flag byte ('c' or '-'). Keeping the
value in the same shape as the .ntrail output makes the catalog a flat
archive of every routing ever produced for a shape.

***/

var (
	gCatalogStateKey = []byte{0x00, 0x00, 0x01}
	gRoutePrefix     = byte('r')
)

type catalogState struct {
	MajorVers int64
	MinorVers int64
	NumRoutes int64
}

func (st *catalogState) marshal() []byte {
	buf := make([]byte, 0, 3*binary.MaxVarintLen64)
	buf = binary.AppendVarint(buf, st.MajorVers)
	buf = binary.AppendVarint(buf, st.MinorVers)
	buf = binary.AppendVarint(buf, st.NumRoutes)
	return buf
}

func (st *catalogState) unmarshal(val []byte) error {
	var n int
	if st.MajorVers, n = binary.Varint(val); n <= 0 {
		return erdos.ErrBadCatalogParam
	}
	val = val[n:]
	if st.MinorVers, n = binary.Varint(val); n <= 0 {
		return erdos.ErrBadCatalogParam
	}
	val = val[n:]
	if st.NumRoutes, n = binary.Varint(val); n <= 0 {
		return erdos.ErrBadCatalogParam
	}
	return nil
}

// routeCatalog is a db wrapper for found scaffold routings.
type routeCatalog struct {
	db         *badger.DB
	state      catalogState
	stateDirty bool
}

// OpenRoutes opens (or creates) the routing catalog at dbPath. An empty
// path opens an in-memory catalog.
func OpenRoutes(dbPath string) (erdos.Catalog, error) {
	dbOpts := badger.DefaultOptions(dbPath)
	dbOpts.Logger = nil
	dbOpts.DetectConflicts = false // single writer per key, not needed
	if dbPath == "" {
		dbOpts.InMemory = true
	}

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, errors.Wrap(err, "opening route catalog")
	}

	cat := &routeCatalog{db: db}

	err = cat.loadState()
	if err == badger.ErrKeyNotFound {
		err = nil
		cat.stateDirty = true
		cat.state.MajorVers = 2024
		cat.state.MinorVers = 1
	}
	if err != nil {
		db.Close()
		return nil, err
	}
	if cat.state.MajorVers != 2024 {
		db.Close()
		return nil, errors.Wrap(erdos.ErrBadCatalogParam, "catalog version is incompatible")
	}

	return cat, nil
}

func (cat *routeCatalog) loadState() error {
	return cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gCatalogStateKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return cat.state.unmarshal(val)
		})
	})
}

func (cat *routeCatalog) flushState() {
	if !cat.stateDirty {
		return
	}
	err := cat.db.Update(func(txn *badger.Txn) error {
		return txn.Set(gCatalogStateKey, cat.state.marshal())
	})
	if err != nil {
		panic(err)
	}
	cat.stateDirty = false
}

func (cat *routeCatalog) Close() error {
	if cat.db == nil {
		return erdos.ErrCatalogClosed
	}
	cat.flushState()
	err := cat.db.Close()
	cat.db = nil
	return err
}

func (cat *routeCatalog) NumRoutes() int64 {
	return cat.state.NumRoutes
}

func formRouteKey(key []byte, shape string, branch, color int) []byte {
	key = append(key, gRoutePrefix)
	key = append(key, shape...)
	key = append(key, 0)
	key = binary.AppendVarint(key, int64(branch))
	key = append(key, byte(color))
	return key
}

func formRouteValue(rec *erdos.RouteRecord) []byte {
	var b strings.Builder
	if rec.Crossing {
		b.WriteByte('c')
	} else {
		b.WriteByte('-')
	}
	for i, v := range rec.Verts {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(v))
	}
	return []byte(b.String())
}

func parseRouteValue(val []byte, rec *erdos.RouteRecord) error {
	if len(val) == 0 {
		return erdos.ErrBadCatalogParam
	}
	rec.Crossing = val[0] == 'c'
	for _, tok := range strings.Fields(string(val[1:])) {
		v, err := strconv.Atoi(tok)
		if err != nil {
			return errors.Wrapf(erdos.ErrBadCatalogParam, "bad route vertex %q", tok)
		}
		rec.Verts = append(rec.Verts, v)
	}
	return nil
}

// TryAddRoute adds the given routing if it isn't already recorded.
// Returns true if the route was not present and was added.
func (cat *routeCatalog) TryAddRoute(rec erdos.RouteRecord) bool {
	if cat.db == nil {
		return false
	}
	var keyBuf [128]byte
	key := formRouteKey(keyBuf[:0], rec.Shape, rec.Branch, rec.Color)

	added := false
	err := cat.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return nil
		}
		if err != badger.ErrKeyNotFound {
			return err
		}
		added = true
		return txn.Set(key, formRouteValue(&rec))
	})
	if err != nil {
		panic(err)
	}
	if added {
		cat.state.NumRoutes++
		cat.stateDirty = true
		cat.flushState()
	}
	return added
}

// SelectRoutes fires onHit with every route recorded for the shape, in
// key order. Enumeration stops early if onHit returns false.
func (cat *routeCatalog) SelectRoutes(shape string, onHit func(rec erdos.RouteRecord) bool) error {
	if cat.db == nil {
		return erdos.ErrCatalogClosed
	}
	prefix := append([]byte{gRoutePrefix}, shape...)
	prefix = append(prefix, 0)

	return cat.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{
			PrefetchValues: true,
			PrefetchSize:   64,
			Prefix:         prefix,
		})
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := item.Key()
			if !bytes.HasPrefix(key, prefix) {
				break
			}

			suffix := key[len(prefix):]
			branch, n := binary.Varint(suffix)
			if n <= 0 || len(suffix) != n+1 {
				return errors.Wrap(erdos.ErrBadCatalogParam, "corrupt route key")
			}
			rec := erdos.RouteRecord{
				Shape:  shape,
				Branch: int(branch),
				Color:  int(suffix[n]),
			}
			err := item.Value(func(val []byte) error {
				return parseRouteValue(val, &rec)
			})
			if err != nil {
				return err
			}
			if !onHit(rec) {
				break
			}
		}
		return nil
	})
}
