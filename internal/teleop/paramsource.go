package teleop

// ParamSource is the read side of the parameter store the engine is
// configured from. Each value is read exactly once at start-up with a
// compiled-in default; an unparseable value is a fatal configuration error.
type ParamSource interface {
	String(key, def string) (string, error)
	Int(key string, def int) (int, error)
	Float(key string, def float64) (float64, error)
	Bool(key string, def bool) (bool, error)
}
