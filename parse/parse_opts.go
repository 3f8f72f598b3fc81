package parse

type parseOpts struct {
	json bool
	tags bool
}

type ParseOption func(*parseOpts)

// ParseJSON requires the input to be strict JSON.
func ParseJSON() ParseOption {
	return func(o *parseOpts) { o.json = true }
}

// ParseTags sets whether YAML tags are kept on nodes. They are by
// default.
func ParseTags(v bool) ParseOption {
	return func(o *parseOpts) { o.tags = v }
}

func newOpts(opts []ParseOption) *parseOpts {
	o := &parseOpts{tags: true}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
