package debug

import (
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Lex    bool
	Parse  bool
	Sem    bool
	Sat    bool
	Export bool
}

var d *debug

func init() {
	d = &debug{}
	d.Lex = boolEnv("WITNESS_DEBUG_LEX")
	d.Parse = boolEnv("WITNESS_DEBUG_PARSE")
	d.Sem = boolEnv("WITNESS_DEBUG_SEM")
	d.Sat = boolEnv("WITNESS_DEBUG_SAT")
	d.Export = boolEnv("WITNESS_DEBUG_EXPORT")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Lex() bool {
	return d.Lex
}
func Parse() bool {
	return d.Parse
}
func Sem() bool {
	return d.Sem
}
func Sat() bool {
	return d.Sat
}
func Export() bool {
	return d.Export
}

func Logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
}
