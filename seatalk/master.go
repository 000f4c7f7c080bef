package seatalk

// Master builds outbound SeaTalk datagrams. It holds no transport state of its own: encoding a
// command produces a Line (or, via EncodeTX, a DataWidth9 byte-pair buffer ready for a
// softuart.BitStreamer) that the caller hands to whatever interface owns the physical bus.
type Master struct{}

// NewMaster creates a Master.
func NewMaster() *Master {
	return &Master{}
}

// SetLampIntensity builds the 3-byte Set Lamp Intensity datagram for intensity.
func (m *Master) SetLampIntensity(intensity LampIntensity) *Line {
	line := &Line{}
	line.Append(uint8(SetLampIntensity))
	line.Append(0x00)
	line.Append(uint8(intensity) & 0x0f)
	return line
}

// EncodeTX renders line as a DataWidth9 byte-pair buffer: each datagram byte is followed by a
// byte whose bit 0 carries that character's 9th bit, the command-mark bit set only for the
// first byte, matching softuart.BitStreamer's DataWidth9 pairing convention.
func (m *Master) EncodeTX(line *Line) []byte {
	buf := make([]byte, 0, line.Len()*2)
	for i := 0; i < line.Len(); i++ {
		buf = append(buf, line.Byte(i))
		if i == 0 {
			buf = append(buf, 0x01)
		} else {
			buf = append(buf, 0x00)
		}
	}
	return buf
}
