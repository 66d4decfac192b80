package secrets

// counterReader yields 0, 1, 2, ... so tests get reproducible keys, nonces and salts.
type counterReader struct {
	next byte
}

func (r *counterReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.next
		r.next++
	}
	return len(p), nil
}
