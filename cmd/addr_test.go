package cmd

import "testing"

func TestValidateAddr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		addr    string
		wantErr bool
	}{
		// Valid addresses
		{name: "port only", addr: ":8080", wantErr: false},
		{name: "localhost", addr: "localhost:4280", wantErr: false},
		{name: "loopback", addr: "127.0.0.1:4280", wantErr: false},
		{name: "all interfaces", addr: "0.0.0.0:80", wantErr: false},
		{name: "ipv6 loopback", addr: "[::1]:8080", wantErr: false},
		{name: "port zero", addr: ":0", wantErr: false},
		{name: "port max", addr: ":65535", wantErr: false},
		{name: "hostname", addr: "myhost:9090", wantErr: false},

		// Invalid: bad format
		{name: "no port", addr: "localhost", wantErr: true},
		{name: "port alone", addr: "8080", wantErr: true},
		{name: "empty string", addr: "", wantErr: true},

		// Invalid: bad port
		{name: "port non-numeric", addr: ":abc", wantErr: true},
		{name: "port negative", addr: ":-1", wantErr: true},
		{name: "port too high", addr: ":65536", wantErr: true},
		{name: "port empty after colon", addr: "localhost:", wantErr: true},

		// Invalid: bad host
		{name: "host with space", addr: "my host:8080", wantErr: true},
		{name: "host with tab", addr: "my\thost:8080", wantErr: true},
		{name: "host with newline", addr: "my\nhost:8080", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := validateAddr(tt.addr)
			if tt.wantErr && err == nil {
				t.Errorf("validateAddr(%q) = nil, want error", tt.addr)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("validateAddr(%q) = %v, want nil", tt.addr, err)
			}
		})
	}
}

func TestResolveServeAddr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		flagAddr string
		args     []string
		want     string
		wantErr  bool
	}{
		{name: "flag only", flagAddr: ":8080", args: nil, want: ":8080"},
		{name: "default", flagAddr: defaultAddr, args: nil, want: defaultAddr},
		{name: "positional wins over flag", flagAddr: ":8080", args: []string{":9090"}, want: ":9090"},
		{name: "invalid flag addr", flagAddr: "nonsense", args: nil, wantErr: true},
		{name: "invalid positional", flagAddr: defaultAddr, args: []string{"bad addr"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := resolveServeAddr(tt.flagAddr, tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("resolveServeAddr(%q, %v) = %q, want error", tt.flagAddr, tt.args, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveServeAddr(%q, %v) error: %v", tt.flagAddr, tt.args, err)
			}
			if got != tt.want {
				t.Errorf("resolveServeAddr(%q, %v) = %q, want %q", tt.flagAddr, tt.args, got, tt.want)
			}
		})
	}
}

func FuzzValidateAddr(f *testing.F) {
	f.Add(":8080")
	f.Add("localhost:4280")
	f.Add("127.0.0.1:80")
	f.Add("")
	f.Add("abc")
	f.Add(":0")
	f.Add(":99999")
	f.Add("[::1]:8080")
	f.Add("host with space:80")

	f.Fuzz(func(t *testing.T, addr string) {
		_ = validateAddr(addr) // must not panic
	})
}
