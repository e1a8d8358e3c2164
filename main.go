package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/linqs/psl-go/cmd"
)

func main() {
	logger := logrus.New()
	if err := cmd.NewRootCommand(logger).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
