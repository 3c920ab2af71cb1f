package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/luccascomvoce/temporizador/internal/model"
)

func newServeCmd() *cobra.Command {
	var addr, upstream string
	var skipInstall bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve o app web pelo cache offline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := openApp(false)
			if err != nil {
				return err
			}
			defer application.Close()

			worker, err := application.OfflineWorker(upstream)
			if err != nil {
				return err
			}
			defer worker.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			out := cmd.OutOrStdout()
			if !skipInstall {
				if err := worker.Install(ctx); err != nil {
					// serving from an older cache is still useful offline
					logger.Warn("install failed", "error", err)
					fmt.Fprintf(out, "Aviso: falha ao pré-carregar o cache: %v\n", err)
				}
			}
			deleted, err := worker.Activate(ctx)
			if err != nil {
				return err
			}
			for _, name := range deleted {
				fmt.Fprintf(out, "Cache antigo removido: %s\n", name)
			}

			if addr == "" {
				addr = cfg.Cache.Addr
			}
			srv := &http.Server{
				Addr:              addr,
				Handler:           worker.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			fmt.Fprintf(out, "Servindo em http://%s\n", addr)
			logger.Info("offline server started", "addr", addr, "cache", worker.CacheName())

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "endereço host:porta (padrão: cache.addr)")
	cmd.Flags().StringVar(&upstream, "upstream", "", "URL de origem do app (padrão: cache.upstream)")
	cmd.Flags().BoolVar(&skipInstall, "no-install", false, "não pré-carrega o manifesto")
	return cmd
}

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Gerencia o cache offline",
	}
	cmd.AddCommand(newCacheInstallCmd(), newCacheListCmd(), newCachePurgeCmd())
	return cmd
}

func newCacheInstallCmd() *cobra.Command {
	var upstream string
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Baixa o manifesto e ativa o cache atual",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := openApp(false)
			if err != nil {
				return err
			}
			defer application.Close()

			worker, err := application.OfflineWorker(upstream)
			if err != nil {
				return err
			}
			defer worker.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			if err := worker.Install(ctx); err != nil {
				return err
			}
			deleted, err := worker.Activate(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d arquivos em %s, %d caches antigos removidos\n",
				len(cfg.Cache.Manifest), worker.CacheName(), len(deleted))
			return nil
		},
	}
	cmd.Flags().StringVar(&upstream, "upstream", "", "URL de origem do app (padrão: cache.upstream)")
	return cmd
}

func newCacheListCmd() *cobra.Command {
	var name string
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Lista as entradas do cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := openApp(false)
			if err != nil {
				return err
			}
			defer application.Close()

			if name == "" && !all {
				name = cfg.Cache.Name
			}
			entries, err := application.DB.ListCacheEntries(name)
			if err != nil {
				return fmt.Errorf("failed to list cache: %w", err)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Cache vazio.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), cacheTable(entries))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "nome do cache (padrão: cache.name)")
	cmd.Flags().BoolVar(&all, "all", false, "lista todos os caches")
	return cmd
}

func newCachePurgeCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Apaga um cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := openApp(false)
			if err != nil {
				return err
			}
			defer application.Close()

			if name == "" {
				name = cfg.Cache.Name
			}
			if err := application.DB.DeleteCache(name); err != nil {
				return fmt.Errorf("failed to delete cache %s: %w", name, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cache %s apagado.\n", name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "nome do cache (padrão: cache.name)")
	return cmd
}

func cacheTable(entries []model.CacheEntry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.CacheName,
			e.URL,
			fmt.Sprintf("%d", e.Size),
			e.StoredAt.Local().Format(time.DateTime),
		})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("cache", "url", "bytes", "salvo em").
		Rows(rows...).
		String()
}
