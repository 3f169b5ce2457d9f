package zipw

// ZIP record layout constants, grounded on the teacher's editor/zip/writer.go
// and cross-checked against martin-sucha-zipserve/struct.go (both are
// derived from the same archive/zip lineage).
const (
	fileHeaderSignature      = 0x04034b50
	directoryHeaderSignature = 0x02014b50
	directoryEndSignature    = 0x06054b50
	directory64LocSignature  = 0x07064b50
	directory64EndSignature  = 0x06064b50

	fileHeaderLen      = 30 // + filename + extra
	directoryHeaderLen = 46 // + filename + extra + comment
	directoryEndLen    = 22 // + comment
	directory64LocLen  = 20
	directory64EndLen  = 56 // + extra

	zipVersion20 = 20
	zipVersion45 = 45 // required to read/write zip64 archives

	uint16max = 1<<16 - 1
	uint32max = 1<<32 - 1

	zip64ExtraID = 0x0001

	// flagUTF8 is general-purpose bit 11: the filename and comment are
	// UTF-8. Bit 3 (data descriptor present) is never set by this writer
	// (spec.md §9 Open Question: buffer-then-patch policy).
	flagUTF8 = 0x0800

	creatorUnix = 3
)

// Method identifies a ZIP compression method.
type Method uint16

const (
	Store   Method = 0
	Deflate Method = 8
)

type writeBuf []byte

func (b *writeBuf) uint16(v uint16) {
	(*b)[0] = byte(v)
	(*b)[1] = byte(v >> 8)
	*b = (*b)[2:]
}

func (b *writeBuf) uint32(v uint32) {
	(*b)[0] = byte(v)
	(*b)[1] = byte(v >> 8)
	(*b)[2] = byte(v >> 16)
	(*b)[3] = byte(v >> 24)
	*b = (*b)[4:]
}

func (b *writeBuf) uint64(v uint64) {
	b.uint32(uint32(v))
	b.uint32(uint32(v >> 32))
}

// RegularFileExternalAttrs returns the central-directory ExternalAttrs
// field for a regular file with the given unix permission bits, encoded
// the way a Unix-creator ZIP entry does (mode in the high 16 bits).
func RegularFileExternalAttrs(perm uint32) uint32 {
	const sIFREG = 0x8000
	return (sIFREG | perm) << 16
}
