package metadata

import (
	stderrors "errors"

	"github.com/chainmeta/metacheck/errors"
	"github.com/chainmeta/metacheck/scale"
)

// Magic is the 4-byte metadata prefix "meta" read as a little-endian u32.
const Magic uint32 = 0x6174656d

// headerLen is the magic plus the version discriminant.
const headerLen = 5

// IsMetadata reports whether data starts with the metadata magic and a
// known version discriminant.
func IsMetadata(data []byte) bool {
	if len(data) < headerLen {
		return false
	}
	r := scale.NewReader(data)
	magic, err := r.ReadU32LE()
	if err != nil || magic != Magic {
		return false
	}
	v, err := r.ReadByte()
	if err != nil {
		return false
	}
	return Version(v) == V1 || Version(v) == V2 || Version(v) == V3
}

// Decode reads the magic and version discriminant, then hands the rest of
// the buffer to the matching schema decoder. A failed decode returns no
// document; there is no partial output.
func Decode(data []byte) (*Document, error) {
	r, version, err := dispatch(data)
	if err != nil {
		return nil, err
	}
	return decodeBody(r, version)
}

// DecodeVersion decodes with an explicit schema-version override. The
// magic prefix is still required, but the header discriminant is ignored
// and version selects the decoder. Used when a node is known to report a
// wrong discriminant.
func DecodeVersion(data []byte, version Version) (*Document, error) {
	r, _, err := dispatch(data)
	if err != nil {
		var derr *errors.Error
		// an unsupported discriminant is exactly what the override exists
		// to bypass; any other dispatch failure still applies
		if !stderrors.As(err, &derr) || derr.Kind != errors.KindUnsupportedVersion {
			return nil, err
		}
	}
	return decodeBody(r, version)
}

// dispatch consumes the header and returns the advanced reader and the
// declared version. No other component inspects the discriminant.
func dispatch(data []byte) (*scale.Reader, Version, error) {
	r := scale.NewReader(data)

	magic, err := r.ReadU32LE()
	if err != nil {
		return r, 0, err
	}
	if magic != Magic {
		return r, 0, errors.UnknownMagic(magic)
	}

	disc, err := r.ReadByte()
	if err != nil {
		return r, 0, err
	}
	version := Version(disc)
	switch version {
	case V1, V2, V3:
		return r, version, nil
	default:
		return r, 0, errors.UnsupportedVersion(disc)
	}
}

func decodeBody(r *scale.Reader, version Version) (*Document, error) {
	switch version {
	case V1:
		return decodeV1(r)
	case V2:
		return decodeV2(r)
	case V3:
		return decodeV3(r)
	default:
		return nil, errors.UnsupportedVersion(byte(version))
	}
}
