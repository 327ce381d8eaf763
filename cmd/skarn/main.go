package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"skarn/internal/prof"
	"skarn/internal/version"
)

var rootCmd = &cobra.Command{
	Use:               "skarn",
	Short:             "Skarn language toolchain",
	Long:              `Skarn is a statically typed programming language; this tool checks skarn sources and reports diagnostics`,
	PersistentPreRunE: startProfiling,
}

// profSession живёт на уровне процесса: Stop вызывается после Execute,
// чтобы профили записывались и при ненулевом выходе.
var profSession prof.Session

func startProfiling(cmd *cobra.Command, _ []string) error {
	flags := cmd.Root().PersistentFlags()
	var err error
	if profSession.CPUPath, err = flags.GetString("cpuprofile"); err != nil {
		return fmt.Errorf("failed to get cpuprofile flag: %w", err)
	}
	if profSession.MemPath, err = flags.GetString("memprofile"); err != nil {
		return fmt.Errorf("failed to get memprofile flag: %w", err)
	}
	if profSession.TracePath, err = flags.GetString("traceprofile"); err != nil {
		return fmt.Errorf("failed to get traceprofile flag: %w", err)
	}
	return profSession.Start()
}

// main initializes the CLI by setting the command version, registering
// subcommands and persistent flags, and then executes the root command.
// If command execution returns an error, the process exits with status code 1.
func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	// Добавляем команды
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 0, "maximum number of diagnostics to show (0 = manifest value or default)")
	rootCmd.PersistentFlags().String("cpuprofile", "", "write a CPU profile to the given file")
	rootCmd.PersistentFlags().String("memprofile", "", "write a heap profile to the given file on exit")
	rootCmd.PersistentFlags().String("traceprofile", "", "write a runtime trace to the given file")

	err := rootCmd.Execute()
	if profErr := profSession.Stop(); profErr != nil {
		fmt.Fprintf(os.Stderr, "failed to write profile: %v\n", profErr)
	}
	if err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
