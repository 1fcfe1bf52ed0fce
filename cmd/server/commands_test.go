package main

import "testing"

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"serve", "migrate"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("subcommand %s should be registered, got %v err=%v", name, cmd, err)
		}
	}
	serve, _, _ := root.Find([]string{"serve"})
	flag := serve.Flags().Lookup("mode")
	if flag == nil || flag.DefValue != "all" {
		t.Fatalf("serve --mode should default to all, got %+v", flag)
	}
}
