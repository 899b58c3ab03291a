package main

import (
	"fmt"
	"slices"
	"strings"

	flag "github.com/spf13/pflag"
)

var pickerNames = []string{pickerFZF, pickerTUI, pickerFinder}

// pickerFlag is the --picker value. Unknown names are rejected while
// flags are parsed.
type pickerFlag string

var _ flag.Value = (*pickerFlag)(nil)

func (p *pickerFlag) String() string { return string(*p) }

func (p *pickerFlag) Set(s string) error {
	if !slices.Contains(pickerNames, s) {
		return fmt.Errorf("must be one of %s", strings.Join(pickerNames, ", "))
	}
	*p = pickerFlag(s)
	return nil
}

func (p *pickerFlag) Type() string { return "picker" }
