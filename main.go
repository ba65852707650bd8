// Entry point for the french-insee CLI; all command handling lives in cmd/.

package main

import (
	"github.com/RagotXavier/French-INSEE/cmd"
)

func main() {
	cmd.Execute()
}
