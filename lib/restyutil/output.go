package restyutil

// InstrumentOutput receives the full text of an HTTP exchange, `id` is unique
// per client.
type InstrumentOutput interface {
	Write(id string, contents string)
}
