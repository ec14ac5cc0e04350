package metadata

import (
	"bytes"
	"encoding/binary"
)

// builder assembles wire-format fixtures for decoder tests. Encoding lives
// only in the test suite; the production code never produces metadata.
type builder struct {
	buf bytes.Buffer
}

func (b *builder) bytes() []byte {
	return b.buf.Bytes()
}

func (b *builder) byte(v byte) *builder {
	b.buf.WriteByte(v)
	return b
}

func (b *builder) u32le(v uint32) *builder {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	b.buf.Write(tmp[:])
	return b
}

func (b *builder) compact(v uint64) *builder {
	switch {
	case v < 1<<6:
		b.buf.WriteByte(byte(v << 2))
	case v < 1<<14:
		var tmp [2]byte
		binary.LittleEndian.PutUint16(tmp[:], uint16(v<<2)|0x01)
		b.buf.Write(tmp[:])
	case v < 1<<30:
		var tmp [4]byte
		binary.LittleEndian.PutUint32(tmp[:], uint32(v<<2)|0x02)
		b.buf.Write(tmp[:])
	default:
		n := 0
		for tmp := v; tmp > 0; tmp >>= 8 {
			n++
		}
		if n < 4 {
			n = 4
		}
		b.buf.WriteByte(byte((n-4)<<2) | 0x03)
		for i := 0; i < n; i++ {
			b.buf.WriteByte(byte(v >> (8 * i)))
		}
	}
	return b
}

func (b *builder) str(s string) *builder {
	b.compact(uint64(len(s)))
	b.buf.WriteString(s)
	return b
}

func (b *builder) docs(lines ...string) *builder {
	b.compact(uint64(len(lines)))
	for _, l := range lines {
		b.str(l)
	}
	return b
}

func (b *builder) header(v Version) *builder {
	return b.u32le(Magic).byte(byte(v))
}

// typeRegistry writes the registry shared by the version fixtures:
//
//	0 primitive u32
//	1 primitive str
//	2 composite { from: 0, to: 0 }
//	3 variant { None | Some { value: 0 } }
//	4 sequence of 1
//	5 tuple (0, 1)
//	6 compact of 0
func (b *builder) typeRegistry() *builder {
	b.compact(7)
	b.byte(typeKindPrimitive).byte(byte(PrimU32))
	b.byte(typeKindPrimitive).byte(byte(PrimStr))
	b.byte(typeKindComposite).compact(2).
		str("from").compact(0).
		str("to").compact(0)
	b.byte(typeKindVariant).compact(2).
		str("None").compact(0).
		str("Some").compact(1).str("value").compact(0)
	b.byte(typeKindSequence).compact(1)
	b.byte(typeKindTuple).compact(2).compact(0).compact(1)
	b.byte(typeKindCompact).compact(0)
	return b
}

// fixtureV1 is a two-module v1 document.
func fixtureV1() []byte {
	b := &builder{}
	b.header(V1).typeRegistry()
	b.compact(2) // modules

	b.str("System")
	b.compact(1). // calls
			str("remark").compact(1).str("data").compact(4)
	b.compact(1). // events
			str("ExtrinsicSuccess").compact(0)

	b.str("Balances")
	b.compact(1).
		str("transfer").compact(2).
		str("dest").compact(0).
		str("amount").compact(6)
	b.compact(1).
		str("Transfer").compact(2).compact(0).compact(0)

	return b.bytes()
}

// fixtureV2 adds docs, errors and plain storage to the v1 shape.
func fixtureV2() []byte {
	b := &builder{}
	b.header(V2).typeRegistry()
	b.compact(1)

	b.str("Balances")
	b.compact(1). // calls
			str("transfer").
			compact(2).str("dest").compact(0).str("amount").compact(6).
			docs("Transfer some balance to another account.")
	b.compact(1). // events
			str("Transfer").
			compact(2).str("from").compact(0).str("to").compact(0).
			docs("A transfer succeeded.")
	b.compact(2). // errors
			str("InsufficientBalance").docs("Balance too low.").
			str("ExistentialDeposit").docs()
	b.byte(0x01). // storage present
			compact(1).
			str("TotalIssuance").compact(0).docs("Total units issued.")

	return b.bytes()
}

// fixtureV3 uses explicit local indices and the extended storage layout.
func fixtureV3() []byte {
	b := &builder{}
	b.header(V3).typeRegistry()
	b.compact(1)

	b.str("Balances")
	b.docs("Balance accounting.")
	b.compact(2). // calls with explicit indices
			compact(0).str("transfer").
			compact(2).str("dest").compact(0).str("amount").compact(6).
			docs("Transfer some balance.").
			compact(1).str("set_balance").
			compact(1).str("who").compact(0).
			docs()
	b.compact(1). // events
			compact(0).str("Transfer").
			compact(2).str("from").compact(0).str("to").compact(0).
			docs()
	b.compact(1). // errors
			compact(0).str("InsufficientBalance").docs()
	b.byte(0x01). // storage present
			compact(2).
		// plain entry with a default value
		str("TotalIssuance").
		byte(byte(StorageDefault)).compact(4).byte(0).byte(0).byte(0).byte(0).
		byte(byte(StoragePlain)).compact(0).
		docs().
		// map entry
		str("FreeBalance").
		byte(byte(StorageOptional)).
		byte(byte(StorageMap)).byte(byte(HasherBlake2_128)).compact(2).compact(0).
		docs("Balance per account.")

	return b.bytes()
}
