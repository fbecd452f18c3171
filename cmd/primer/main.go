// Package main provides the Primer CLI.
package main

import (
	"fmt"
	"os"

	"github.com/primer-ml/primer/backend/cpu"
	"github.com/primer-ml/primer/device"
	"github.com/primer-ml/primer/tensor"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("Primer %s\n", version)
			return
		case "devices":
			printDevices()
			return
		case "demo":
			runEdgeDemo()
			return
		}
	}

	fmt.Println("Primer - Deep Learning Building Blocks for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  devices    List available compute devices")
	fmt.Println("  demo       Run the edge-detection demo")
}

func printDevices() {
	fmt.Println("CPU")
	adapters, err := device.ListAdapters()
	if err != nil {
		fmt.Printf("WebGPU: unavailable (%v)\n", err)
		return
	}
	for _, a := range adapters {
		fmt.Printf("WebGPU: %s (%s)\n", a.Name, a.Vendor)
	}
}

// runEdgeDemo cross-correlates a black-and-white image with the [1 -1]
// kernel and prints where the edges light up.
func runEdgeDemo() {
	backend := cpu.New()

	x, err := tensor.FromSlice([]float32{
		1, 1, 0, 0, 0, 0, 1, 1,
		1, 1, 0, 0, 0, 0, 1, 1,
		1, 1, 0, 0, 0, 0, 1, 1,
		1, 1, 0, 0, 0, 0, 1, 1,
		1, 1, 0, 0, 0, 0, 1, 1,
		1, 1, 0, 0, 0, 0, 1, 1,
	}, tensor.Shape{6, 8}, backend)
	if err != nil {
		fmt.Fprintf(os.Stderr, "demo: %v\n", err)
		os.Exit(1)
	}

	k, err := tensor.FromSlice([]float32{1, -1}, tensor.Shape{1, 2}, backend)
	if err != nil {
		fmt.Fprintf(os.Stderr, "demo: %v\n", err)
		os.Exit(1)
	}

	y, err := tensor.Corr2D(x, k)
	if err != nil {
		fmt.Fprintf(os.Stderr, "demo: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("input (1 = white, 0 = black):")
	printGrid(x)
	fmt.Println("\ncross-correlation with [1 -1] (+1 = white-to-black edge, -1 = black-to-white):")
	printGrid(y)
}

func printGrid[B tensor.Backend](t *tensor.Tensor[float32, B]) {
	shape := t.Shape()
	data := t.Data()
	for i := 0; i < shape[0]; i++ {
		for j := 0; j < shape[1]; j++ {
			fmt.Printf("%3.0f", data[i*shape[1]+j])
		}
		fmt.Println()
	}
}
