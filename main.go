// Public domain.

package main

import "github.com/soniakeys/pointspec/internal/psprog"

func main() {
	psprog.Main()
}
