// Command invoicecalc calcula impuestos y totales de una factura desde un archivo YAML, JSON o XLSX.
//
//	invoicecalc calculate factura.yaml --output text
//	invoicecalc round 2.675 --precision 2
//	invoicecalc version
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
