package cli

import (
	"io"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Printer renders command results in the selected format. Text rendering is
// supplied per command.
type Printer struct {
	Format string
	Writer io.Writer
}

func (p *Printer) Print(data any, text func(w io.Writer)) error {
	switch p.Format {
	case "json":
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return err
		}
		out = append(out, '\n')
		_, err = p.Writer.Write(out)
		return err
	case "yaml":
		enc := yaml.NewEncoder(p.Writer)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return err
		}
		return enc.Close()
	}
	text(p.Writer)
	return nil
}
