// Command labeler assigns cost center labels and sequence numbers to invoice
// PDFs, either in batch from the command line or as an HTTP service.
//
// Usage:
//
//	labeler process --guidelines wytyczne.xlsx --out wyniki faktura1.pdf faktura2.pdf
//	labeler serve --config configs/config.yaml
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
