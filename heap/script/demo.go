package script

import (
	_ "embed"
	"strings"
)

//go:embed demo.heap
var demoSource string

// Demo returns the built-in demonstration script.
func Demo() *Script {
	s, err := Parse(strings.NewReader(demoSource))
	if err != nil {
		panic("script: embedded demo does not parse: " + err.Error())
	}
	s.Name = "demo"
	return s
}

// DemoSource returns the text of the built-in demonstration script.
func DemoSource() string {
	return demoSource
}
