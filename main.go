package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"laptudirm.com/x/overseer/internal/overseer/cmd"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		PadLevelText:     true,
	})
	logrus.SetLevel(logrus.InfoLevel)

	if err := overseer(); err != nil {
		logrus.Fatal(err)
	}
}

func overseer() error {
	root := cmd.Root()
	root.SetArgs(os.Args[1:])
	return root.Execute()
}
