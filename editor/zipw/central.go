package zipw

// centralRecord is the immutable metadata recorded once an entry is
// closed; render renders its central-directory-header bytes.
type centralRecord struct {
	name              string
	method            uint16
	crc32             uint32
	compressedSize    uint64
	uncompressedSize  uint64
	localHeaderOffset uint64
	externalAttrs     uint32
}

func (h *centralRecord) isZip64() bool {
	return h.compressedSize >= uint32max || h.uncompressedSize >= uint32max || h.localHeaderOffset >= uint32max
}

func (h *centralRecord) render() []byte {
	readerVersion := uint16(zipVersion20)
	creatorVersion := uint16(creatorUnix)<<8 | zipVersion20

	var extra []byte
	compField, uncompField := uint32(h.compressedSize), uint32(h.uncompressedSize)
	offsetField := uint32(h.localHeaderOffset)
	if h.isZip64() {
		readerVersion = zipVersion45
		creatorVersion = uint16(creatorUnix)<<8 | zipVersion45
		compField, uncompField = uint32max, uint32max
		var zbuf [28]byte // 2x uint16 + 3x uint64
		zb := writeBuf(zbuf[:])
		zb.uint16(zip64ExtraID)
		zb.uint16(24)
		zb.uint64(h.uncompressedSize)
		zb.uint64(h.compressedSize)
		zb.uint64(h.localHeaderOffset)
		extra = zbuf[:]
		if h.localHeaderOffset > uint32max {
			offsetField = uint32max
		}
	}

	var buf [directoryHeaderLen]byte
	b := writeBuf(buf[:])
	b.uint32(directoryHeaderSignature)
	b.uint16(creatorVersion)
	b.uint16(readerVersion)
	b.uint16(flagUTF8)
	b.uint16(h.method)
	b.uint16(0) // mod time
	b.uint16(0) // mod date
	b.uint32(h.crc32)
	b.uint32(compField)
	b.uint32(uncompField)
	b.uint16(uint16(len(h.name)))
	b.uint16(uint16(len(extra)))
	b.uint16(0) // comment length
	b.uint16(0) // disk number start
	b.uint16(0) // internal file attrs
	b.uint32(h.externalAttrs)
	b.uint32(offsetField)

	out := make([]byte, 0, directoryHeaderLen+len(h.name)+len(extra))
	out = append(out, buf[:]...)
	out = append(out, h.name...)
	out = append(out, extra...)
	return out
}
