package nmea0183

import "fmt"

// Checksum computes the NMEA 0183 checksum over data: the XOR of every byte, taken over the
// sentence body between the leading '$'/'!' and the trailing '*' (both excluded).
func Checksum(data []byte) uint8 {
	var checksum uint8
	for _, b := range data {
		checksum ^= b
	}
	return checksum
}

// AppendChecksum appends "*HH" (the checksum of body, formatted as upper-case hex) to body and
// returns the result, ready to have a CR/LF attached and be written to the wire.
func AppendChecksum(body []byte) []byte {
	checksum := Checksum(body)
	return append(body, []byte(fmt.Sprintf("*%02X", checksum))...)
}
