// Package cmd contains the keepsake command line interface. The CLI opens a
// namespace in a directory of namespace files and exposes the store
// operations as subcommands, plus a small benchmarking tool.
package cmd
