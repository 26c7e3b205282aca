package main

import (
	"fmt"
)

type example struct {
	title   string
	request string
}

const fibonacci = `package main

import "fmt"

func fibonacci(n int) []int {
	if n <= 0 {
		return []int{}
	} else if n == 1 {
		return []int{0}
	}

	fib := []int{0, 1}
	for i := 2; i < n; i++ {
		fib = append(fib, fib[i-1]+fib[i-2])
	}
	return fib
}

func main() {
	fmt.Println(fibonacci(10))
}
`

var examples = map[string][]example{
	"code": {
		{"Analyzing code structure", fmt.Sprintf("Analyze this code and tell me about its structure and complexity:\n%s", fibonacci)},
		{"Transforming code to use an iterator", fmt.Sprintf("Transform this code to use an iterator (iter.Seq) pattern for memory efficiency:\n%s", fibonacci)},
		{"Generating unit tests", fmt.Sprintf("Generate comprehensive table-driven unit tests for this code:\n%s", fibonacci)},
		{"Optimizing code", fmt.Sprintf("Optimize this code for better performance and preallocate the slice:\n%s", fibonacci)},
	},
	"research": {
		{"Researching recent AI developments", `Research and create a report about AI product launches by major tech
companies in 2024. Focus on:
- Product names and launch dates
- Key features and capabilities
- Market reception and impact`},
		{"Deep diving into most significant product", `Based on the previous findings, identify the most significant AI product
launch and create a detailed analysis of its:
- Technical architecture
- Market positioning
- Competition
- Future potential`},
	},
}
