package audio

import "unsafe"

// bytesToFloat32 reinterprets a float32LE byte buffer in place, the
// same zero-copy trick the backend's own Read buffer relies on to avoid
// allocating on the callback thread.
func bytesToFloat32(p []byte) []float32 {
	if len(p) < 4 {
		return nil
	}
	if len(p)%4 != 0 {
		p = p[:len(p)-len(p)%4]
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&p[0])), len(p)/4)
}
