package offline

import (
	"fmt"
	"net/http"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Entry is a stored response.
type Entry struct {
	Status   int         `cbor:"1,keyasint"`
	Header   http.Header `cbor:"2,keyasint,omitempty"`
	Body     []byte      `cbor:"3,keyasint"`
	StoredAt time.Time   `cbor:"4,keyasint"`
}

// OK reports a 2xx status.
func (e *Entry) OK() bool {
	return e.Status >= 200 && e.Status < 300
}

var (
	entryEncMode cbor.EncMode
	entryDecMode cbor.DecMode
)

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	entryEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create cache entry encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	entryDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create cache entry decoder mode: %v", err))
	}
}

// EncodeEntry encodes e as CBOR with integer keys.
func EncodeEntry(e *Entry) ([]byte, error) {
	return entryEncMode.Marshal(e)
}

// DecodeEntry decodes a CBOR entry.
func DecodeEntry(data []byte) (*Entry, error) {
	var e Entry
	if err := entryDecMode.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
