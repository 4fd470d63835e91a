// Command insight is the terminal front-end for the InsightSphere API: it
// drives the session and news stores the same way the web pages do.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/insightsphere/insight-go/client"
	"github.com/insightsphere/insight-go/credstore"
	"github.com/insightsphere/insight-go/internal/config"
	"github.com/insightsphere/insight-go/store"
)

var (
	serviceURL string
	configFile string
	debug      bool

	cfg *config.Config
)

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "insight",
		Short: "InsightSphere CLI for news, analysis and account management",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configFile)
			if err != nil {
				return err
			}
			cfg.Init()
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
				os.Setenv("INSIGHT_DEBUG", "true")
				log.Debug().Msg("debug logging enabled")
			}
			if serviceURL != "" {
				cfg.ServiceURL = serviceURL
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&serviceURL, "service-url", "", "Base URL of the InsightSphere API (overrides config)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable verbose debug output")

	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newRegisterCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newUpdateProfileCmd())
	rootCmd.AddCommand(newChangePasswordCmd())
	rootCmd.AddCommand(newLatestCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newSourcesCmd())
	rootCmd.AddCommand(newCategoriesCmd())
	rootCmd.AddCommand(newCategoryCmd())
	rootCmd.AddCommand(newFeedCmd())
	rootCmd.AddCommand(newViewCmd())
	rootCmd.AddCommand(newSaveCmd())
	rootCmd.AddCommand(newAnalysisCmds()...)
	rootCmd.AddCommand(newPingCmd())

	return rootCmd
}

// printOpener fulfils the article's default view action in a terminal:
// print the URL instead of spawning a browser.
type printOpener struct{}

func (printOpener) Open(url string) error {
	fmt.Println(url)
	return nil
}

type app struct {
	session *store.SessionStore
	news    *store.NewsStore
}

func buildApp() (*app, error) {
	path := cfg.SessionFile
	if path == "" {
		var err error
		path, err = credstore.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	creds := credstore.NewFileStore(path)
	api := client.New(cfg.ServiceURL, client.WithTokenSource(creds), client.WithDebugLogging(debug))
	return &app{
		session: store.NewSessionStore(api, creds, store.LogNotifier{}, printOpener{}),
		news:    store.NewNewsStore(api, store.LogNotifier{}),
	}, nil
}

func opCtx(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), cfg.RequestTimeout)
}

func dump(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func newLoginCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			ctx, cancel := opCtx(cmd)
			defer cancel()
			if !a.session.Login(ctx, username, password) {
				return fmt.Errorf("login failed")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newRegisterCmd() *cobra.Command {
	var req client.RegisterRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			ctx, cancel := opCtx(cmd)
			defer cancel()
			if !a.session.Register(ctx, req) {
				return fmt.Errorf("registration failed")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Username, "username", "", "Account username")
	cmd.Flags().StringVar(&req.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&req.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&req.Country, "country", "", "Country")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password")
	for _, f := range []string{"username", "email", "name", "country", "password"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			a.session.Logout()
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	var remote bool
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the current identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			if remote {
				ctx, cancel := opCtx(cmd)
				defer cancel()
				a.session.Refresh(ctx)
			}
			user := a.session.User()
			if user == nil {
				return fmt.Errorf("not logged in")
			}
			return dump(user)
		},
	}
	cmd.Flags().BoolVar(&remote, "remote", false, "Refresh the profile from the server first")
	return cmd
}

func newUpdateProfileCmd() *cobra.Command {
	var upd client.ProfileUpdate
	cmd := &cobra.Command{
		Use:   "update-profile",
		Short: "Update profile fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			ctx, cancel := opCtx(cmd)
			defer cancel()
			if !a.session.UpdateProfile(ctx, upd) {
				return fmt.Errorf("profile update failed")
			}
			return dump(a.session.User())
		},
	}
	cmd.Flags().StringVar(&upd.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&upd.Email, "email", "", "Email")
	cmd.Flags().StringVar(&upd.Country, "country", "", "Country")
	return cmd
}

func newChangePasswordCmd() *cobra.Command {
	var current, next string
	cmd := &cobra.Command{
		Use:   "change-password",
		Short: "Rotate the account password",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			ctx, cancel := opCtx(cmd)
			defer cancel()
			if !a.session.ChangePassword(ctx, current, next) {
				return fmt.Errorf("password change failed")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&current, "current", "", "Current password")
	cmd.Flags().StringVar(&next, "new", "", "New password")
	_ = cmd.MarkFlagRequired("current")
	_ = cmd.MarkFlagRequired("new")
	return cmd
}

// filterFlags attaches the shared filter flags and applies them to the store
// before a fetch.
func filterFlags(cmd *cobra.Command, category, source *string, days *int) {
	cmd.Flags().StringVar(category, "category", "", "Filter by category")
	cmd.Flags().StringVar(source, "source", "", "Filter by source")
	cmd.Flags().IntVar(days, "days", store.DefaultDays, "Analysis window in days")
}

func applyFilters(n *store.NewsStore, category, source string, days int) error {
	if err := n.SetFilter("category", category); err != nil {
		return err
	}
	if err := n.SetFilter("source", source); err != nil {
		return err
	}
	return n.SetFilter("days", days)
}

func newLatestCmd() *cobra.Command {
	var category, source string
	var days int
	cmd := &cobra.Command{
		Use:   "latest",
		Short: "Fetch the latest news",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			if err := applyFilters(a.news, category, source, days); err != nil {
				return err
			}
			ctx, cancel := opCtx(cmd)
			defer cancel()
			if !a.news.FetchLatestNews(ctx) {
				return fmt.Errorf("fetch failed")
			}
			return dump(a.news.Articles())
		},
	}
	filterFlags(cmd, &category, &source, &days)
	return cmd
}

func newSearchCmd() *cobra.Command {
	var category, source string
	var days int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search news by keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			if err := applyFilters(a.news, category, source, days); err != nil {
				return err
			}
			ctx, cancel := opCtx(cmd)
			defer cancel()
			if !a.news.SearchNews(ctx, args[0]) {
				return fmt.Errorf("search failed")
			}
			return dump(a.news.Articles())
		},
	}
	filterFlags(cmd, &category, &source, &days)
	return cmd
}

func newSourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List available news sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			ctx, cancel := opCtx(cmd)
			defer cancel()
			if !a.news.FetchSources(ctx) {
				return fmt.Errorf("fetch failed")
			}
			return dump(a.news.Sources())
		},
	}
}

func newCategoriesCmd() *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List news categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			ctx, cancel := opCtx(cmd)
			defer cancel()
			if !a.news.FetchCategories(ctx) {
				return fmt.Errorf("fetch failed")
			}
			if filter != "" {
				return dump(a.news.SearchCategories(filter))
			}
			return dump(a.news.Categories())
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "Filter categories by name")
	return cmd
}

func newCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "category <id>",
		Short: "Fetch news for one category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			ctx, cancel := opCtx(cmd)
			defer cancel()
			if !a.news.FetchNewsByCategory(ctx, args[0]) {
				return fmt.Errorf("fetch failed")
			}
			return dump(a.news.Articles())
		},
	}
}

func newFeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "feed",
		Short: "Fetch the personalized feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			ctx, cancel := opCtx(cmd)
			defer cancel()
			if !a.session.FetchPersonalized(ctx) {
				return fmt.Errorf("fetch failed")
			}
			return dump(a.session.Personalized())
		},
	}
}

func articleRefFlags(cmd *cobra.Command, ref *client.ArticleRef) {
	cmd.Flags().StringVar(&ref.Title, "title", "", "Article title")
	cmd.Flags().StringVar(&ref.URL, "url", "", "Article URL")
	cmd.Flags().StringVar(&ref.Source, "source", "", "Article source")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("url")
}

func newViewCmd() *cobra.Command {
	var ref client.ArticleRef
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Record an article view and print its URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			ctx, cancel := opCtx(cmd)
			defer cancel()
			if !a.session.ViewNews(ctx, ref) {
				return fmt.Errorf("view failed")
			}
			return nil
		},
	}
	articleRefFlags(cmd, &ref)
	return cmd
}

func newSaveCmd() *cobra.Command {
	var ref client.ArticleRef
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save an article to the profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			ctx, cancel := opCtx(cmd)
			defer cancel()
			if !a.session.SavePost(ctx, ref) {
				return fmt.Errorf("save failed")
			}
			return nil
		},
	}
	articleRefFlags(cmd, &ref)
	return cmd
}

func newAnalysisCmds() []*cobra.Command {
	type spec struct {
		use, short string
		run        func(*store.NewsStore, context.Context) bool
		out        func(*store.NewsStore) any
	}
	specs := []spec{
		{"trends", "Fetch sentiment trends", (*store.NewsStore).FetchSentimentTrends, func(n *store.NewsStore) any { return n.SentimentTrends() }},
		{"entities", "Fetch top entities", (*store.NewsStore).FetchTopEntities, func(n *store.NewsStore) any { return n.TopEntities() }},
		{"distribution", "Fetch category distribution", (*store.NewsStore).FetchCategoryDistribution, func(n *store.NewsStore) any { return n.CategoryDistribution() }},
		{"source-analysis", "Fetch per-source analysis", (*store.NewsStore).FetchSourceAnalysis, func(n *store.NewsStore) any { return n.SourceAnalysis() }},
	}

	cmds := make([]*cobra.Command, 0, len(specs))
	for _, sp := range specs {
		sp := sp
		var category, source string
		var days int
		cmd := &cobra.Command{
			Use:   sp.use,
			Short: sp.short,
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := buildApp()
				if err != nil {
					return err
				}
				if err := applyFilters(a.news, category, source, days); err != nil {
					return err
				}
				ctx, cancel := opCtx(cmd)
				defer cancel()
				if !sp.run(a.news, ctx) {
					return fmt.Errorf("fetch failed")
				}
				raw, _ := json.Marshal(sp.out(a.news))
				fmt.Println(string(raw))
				return nil
			},
		}
		filterFlags(cmd, &category, &source, &days)
		cmds = append(cmds, cmd)
	}
	return cmds
}

func newPingCmd() *cobra.Command {
	var wait time.Duration
	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Wait until the API answers",
		RunE: func(cmd *cobra.Command, args []string) error {
			api := client.New(cfg.ServiceURL)
			ctx, cancel := context.WithTimeout(cmd.Context(), wait)
			defer cancel()
			if err := api.WaitReady(ctx); err != nil {
				return fmt.Errorf("service not reachable: %w", err)
			}
			fmt.Println("ok")
			return nil
		},
	}
	cmd.Flags().DurationVar(&wait, "wait", 30*time.Second, "How long to keep retrying")
	return cmd
}
