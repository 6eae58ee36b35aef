// Package main provides the toastui command line client.
package main

func main() {
	Execute()
}
