// Package main provides the recurrent command line tool.
//
//	recurrent train  -data input.txt [-config cfg.yaml] [-load model.rnn] [-save model.rnn] ...
//	recurrent sample -load model.rnn [-prompt text] [-n 256] [-temperature 0.8]
//	recurrent info   -load model.rnn
//	recurrent version
package main

import (
	"flag"
	"fmt"
	"os"

	"k8s.io/klog/v2"
)

const version = "v0.1.0-dev"

func usage() {
	fmt.Fprintf(os.Stderr, "recurrent %s - stacked LSTM text models\n\n", version)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  train      Train a model on a text file")
	fmt.Fprintln(os.Stderr, "  sample     Generate text from a saved model")
	fmt.Fprintln(os.Stderr, "  info       Describe a saved model")
	fmt.Fprintln(os.Stderr, "  version    Show version")
	fmt.Fprintln(os.Stderr, "\nRun 'recurrent <command> -h' for the flags of a command.")
}

func main() {
	klog.InitFlags(nil)
	defer klog.Flush()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd, args := os.Args[1], os.Args[2:]
	var err error
	switch cmd {
	case "train":
		err = runTrain(args)
	case "sample":
		err = runSample(args)
	case "info":
		err = runInfo(args)
	case "version":
		fmt.Printf("recurrent %s\n", version)
	case "-h", "-help", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		usage()
		os.Exit(2)
	}
	if err != nil {
		klog.Exitf("%s: %+v", cmd, err)
	}
}

// newFlagSet returns a flag set for a subcommand that also carries the
// klog flags, so -v and -logtostderr work after the command name.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	flag.CommandLine.VisitAll(func(f *flag.Flag) {
		fs.Var(f.Value, f.Name, f.Usage)
	})
	return fs
}
