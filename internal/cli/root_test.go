package cli

import "testing"

func TestPortFlagsAreIndependent(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("BACKEND_PORT", "")

	root := newRootCmd()
	ports := map[string]string{}
	for _, name := range []string{"start", "backend"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil {
			t.Fatalf("find %s: %v", name, err)
		}
		flag := cmd.Flags().Lookup("port")
		if flag == nil {
			t.Fatalf("expected %s to have a port flag", name)
		}
		ports[name] = flag.DefValue
	}
	if ports["start"] != "8081" {
		t.Fatalf("expected start to take PORT, got %q", ports["start"])
	}
	if ports["backend"] != "" {
		t.Fatalf("expected backend to ignore PORT and fall back to backend.port, got %q", ports["backend"])
	}
}

func TestBackendPortFromEnv(t *testing.T) {
	t.Setenv("BACKEND_PORT", "5050")

	cmd, _, err := newRootCmd().Find([]string{"backend"})
	if err != nil {
		t.Fatalf("find backend: %v", err)
	}
	if got := cmd.Flags().Lookup("port").DefValue; got != "5050" {
		t.Fatalf("expected BACKEND_PORT default, got %q", got)
	}
}
