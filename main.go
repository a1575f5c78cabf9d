package main

import "github.com/ltessier/keepsake/cmd"

func main() {
	cmd.Execute()
}
