// Command addition shows a form that adds two numbers.
package main

import (
	"log"

	"tissue"
)

func main() {
	err := tissue.Run(
		func(x []float32) float32 {
			var sum float32
			for _, v := range x {
				sum += v
			}
			return sum
		},
		[]tissue.Input{
			tissue.Number(234.289),
			tissue.Number(235.6),
		},
	)
	if err != nil {
		log.Fatalf("could not run: %v", err)
	}
}
