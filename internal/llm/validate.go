package llm

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// validate checks raw against the schema. A nil schema accepts anything.
func (s *Schema) validate(raw json.RawMessage) error {
	if s == nil {
		return nil
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("reply is not JSON: %w", err)}
	}

	sch, err := s.compile()
	if err != nil {
		return &ErrInvalidResponse{Content: raw, Err: err}
	}
	if err := sch.Validate(doc); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("reply does not match schema %q: %w", s.Name, err)}
	}
	return nil
}

func (s *Schema) compile() (*jsonschema.Schema, error) {
	s.once.Do(func() {
		// The compiler wants decoded JSON values, not Go maps of
		// arbitrary types, so round-trip the definition.
		b, err := json.Marshal(s.Definition)
		if err != nil {
			s.err = fmt.Errorf("encode schema %q: %w", s.Name, err)
			return
		}
		var def any
		if err := json.Unmarshal(b, &def); err != nil {
			s.err = fmt.Errorf("decode schema %q: %w", s.Name, err)
			return
		}

		url := "mem://schemas/" + s.Name + ".json"
		c := jsonschema.NewCompiler()
		if err := c.AddResource(url, def); err != nil {
			s.err = fmt.Errorf("load schema %q: %w", s.Name, err)
			return
		}
		s.compiled, s.err = c.Compile(url)
		if s.err != nil {
			s.err = fmt.Errorf("compile schema %q: %w", s.Name, s.err)
		}
	})
	return s.compiled, s.err
}
