// Package utils holds small interactive helpers shared by the CLI commands.
package utils

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirm writes msg to out and reads a y/N answer from in. Anything other
// than "y" or "yes" (including EOF) means no.
func Confirm(in io.Reader, out io.Writer, msg string) bool {
	resp := strings.ToLower(Prompt(in, out, msg+" [y/N]"))
	return resp == "y" || resp == "yes"
}

// Prompt writes msg to out and returns one trimmed line read from in.
func Prompt(in io.Reader, out io.Writer, msg string) string {
	_, _ = fmt.Fprintf(out, "%s: ", msg)
	line, _ := bufio.NewReader(in).ReadString('\n')
	return strings.TrimSpace(line)
}
