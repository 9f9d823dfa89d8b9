package cli

import (
	"fmt"

	"github.com/iudanet/syncbox/internal/client/api"
	"github.com/iudanet/syncbox/internal/client/auth"
	"github.com/iudanet/syncbox/internal/client/data"
	"github.com/iudanet/syncbox/internal/client/iocli"
	"github.com/iudanet/syncbox/internal/client/sync"
)

// Cli связывает команды терминала с сервисами клиента.
type Cli struct {
	io          iocli.IO
	apiClient   api.ClientAPI
	authService *auth.Service
	dataService *data.Service
	coordinator *sync.Coordinator
}

// New создает новый CLI
func New(
	io iocli.IO,
	apiClient api.ClientAPI,
	authService *auth.Service,
	dataService *data.Service,
	coordinator *sync.Coordinator,
) *Cli {
	return &Cli{
		io:          io,
		apiClient:   apiClient,
		authService: authService,
		dataService: dataService,
		coordinator: coordinator,
	}
}

// PrintUsage выводит справку по командам
func PrintUsage() {
	fmt.Println("Syncbox Client")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  syncbox [OPTIONS] COMMAND")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version        Show version information")
	fmt.Println("  --server URL     Server URL (default: http://localhost:8080)")
	fmt.Println("  --db PATH        Path to local database (default: syncbox-client.db)")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  register                Register new client")
	fmt.Println("  login                   Login to server")
	fmt.Println("  logout                  Remove cached credentials")
	fmt.Println("  status                  Show authentication and sync status")
	fmt.Println("  put [id]                Create or update a record")
	fmt.Println("  get <id>                Show a record")
	fmt.Println("  list                    List local records")
	fmt.Println("  delete <id>             Delete a record")
	fmt.Println("  sync                    Synchronize with the server")
	fmt.Println("  watch                   Synchronize periodically until interrupted")
	fmt.Println("  conflicts               Show recent conflicts recorded by the server")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  syncbox register")
	fmt.Println("  syncbox login")
	fmt.Println("  syncbox put notes-2024")
	fmt.Println("  syncbox sync")
	fmt.Println("  syncbox --server https://example.com sync")
}
