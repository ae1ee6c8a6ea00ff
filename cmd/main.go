package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/grafana-tools/sdk"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"mbenabda.com/grafana-dashboards-importer/pkg/dashboards"
	"mbenabda.com/grafana-dashboards-importer/pkg/datasources"
	"mbenabda.com/grafana-dashboards-importer/pkg/grafana"
	"mbenabda.com/grafana-dashboards-importer/pkg/validation"
)

type GrafanaOptions struct {
	URL       *url.URL
	APIKey    string
	Username  string
	Password  string
	AppSubURL string
}

type ImportOptions struct {
	FolderID        int64
	Title           string
	UID             string
	Inputs          inputValues
	DryRun          bool
	DatasourcesFile string
	Timeout         time.Duration
}

type inputValue struct {
	name  string
	value string
}

type inputValues []inputValue

func (v *inputValues) Set(value string) error {
	name, val, ok := strings.Cut(value, "=")
	if !ok || name == "" {
		return fmt.Errorf("'%s' is not a valid input, expected name=value", value)
	}
	*v = append(*v, inputValue{name: name, value: val})
	return nil
}

func (v inputValues) String() string {
	pairs := make([]string, 0, len(v))
	for _, in := range v {
		pairs = append(pairs, in.name+"="+in.value)
	}
	return strings.Join(pairs, ",")
}

func (v inputValues) IsCumulative() bool {
	return true
}

func main() {
	grafanaOptions := &GrafanaOptions{}
	importOptions := &ImportOptions{}
	var kubeconfig, logLevel string

	app := kingpin.New("grafana-dashboard-import", "Imports a dashboard into Grafana, from grafana.com, a JSON file or a Kubernetes ConfigMap")

	app.Flag("grafana-url", "url to grafana").
		Envar("GRAFANA_URL").
		Required().
		URLVar(&grafanaOptions.URL)

	app.Flag("grafana-api-key", "grafana API Key").
		Envar("GRAFANA_API_KEY").
		StringVar(&grafanaOptions.APIKey)

	app.Flag("grafana-user", "grafana User name (Basic Auth). Required unless using an API key").
		Envar("GRAFANA_BASIC_AUTH_USERNAME").
		StringVar(&grafanaOptions.Username)

	app.Flag("grafana-password", "grafana User password (Basic Auth)").
		Envar("GRAFANA_BASIC_AUTH_PASSWORD").
		StringVar(&grafanaOptions.Password)

	app.Flag("app-sub-url", "sub path grafana is served from. defaults to the path of --grafana-url").
		Envar("GRAFANA_APP_SUB_URL").
		StringVar(&grafanaOptions.AppSubURL)

	app.Flag("dry-run", "do not perform write operations against grafana api").
		Envar("DRY_RUN").
		BoolVar(&importOptions.DryRun)

	app.Flag("folder-id", "id of the folder to import the dashboard into").
		Envar("FOLDER_ID").
		Default("0").
		Int64Var(&importOptions.FolderID)

	app.Flag("title", "title to give the imported dashboard").
		StringVar(&importOptions.Title)

	app.Flag("uid", "uid to give the imported dashboard").
		StringVar(&importOptions.UID)

	app.Flag("input", "value of a dashboard input. repeatable").
		PlaceHolder("DS_PROMETHEUS=Prometheus").
		SetValue(&importOptions.Inputs)

	app.Flag("datasources-file", "grafana datasource provisioning file to pick datasources from instead of the grafana api").
		ExistingFileVar(&importOptions.DatasourcesFile)

	app.Flag("timeout", "maximum duration of the whole import").
		Default("1m").
		DurationVar(&importOptions.Timeout)

	app.Flag("log-level", "log level").
		Default(log.InfoLevel.String()).
		EnumVar(&logLevel, "debug", "info", "warning", "error")

	gnetCmd := app.Command("gnet", "import a dashboard published on grafana.com")
	gnetID := gnetCmd.Arg("id", "grafana.com dashboard id").Required().String()

	fileCmd := app.Command("file", "import a dashboard from a JSON file")
	filePath := fileCmd.Arg("path", "dashboard JSON file, - to read it from stdin").Required().String()

	configmapCmd := app.Command("configmap", "import a dashboard stored in a Kubernetes ConfigMap")
	configmapRef := configmapCmd.Arg("ref", "namespace/name of the ConfigMap").Required().String()
	configmapKey := configmapCmd.Flag("key", "ConfigMap data key holding the dashboard. defaults to the first key").String()
	configmapCmd.Flag("kubeconfig", "path to a kubernetes config file defining a \"current\" context. Do not specify when running in cluster").
		ExistingFileVar(&kubeconfig)

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	logger := buildLogger(logLevel)

	client, err := buildGrafanaClient(grafanaOptions)
	if err != nil {
		errorLogger().Printf("could not build a grafana client : %v\n\n", err)
		app.Usage(os.Args[1:])
		os.Exit(1)
	}

	sdkClient, err := buildSDKClient(grafanaOptions)
	if err != nil {
		errorLogger().Printf("could not build a grafana client : %v\n\n", err)
		os.Exit(1)
	}

	var src source
	switch command {
	case gnetCmd.FullCommand():
		src = catalogSource(*gnetID)
	case fileCmd.FullCommand():
		src = jsonSource(func(ctx context.Context) ([]byte, error) {
			return readFile(*filePath)
		})
	case configmapCmd.FullCommand():
		namespace, name, ok := strings.Cut(*configmapRef, "/")
		if !ok || namespace == "" || name == "" {
			errorLogger().Printf("'%s' is not a valid ConfigMap reference, expected namespace/name\n\n", *configmapRef)
			app.Usage(os.Args[1:])
			os.Exit(1)
		}
		clients, err := buildK8sClients(kubeconfig)
		if err != nil {
			errorLogger().Printf("could not build kubernetes clients : %v\n\n", err)
			os.Exit(1)
		}
		src = jsonSource(func(ctx context.Context) ([]byte, error) {
			return dashboards.ReadConfigMap(ctx, clients, namespace, name, *configmapKey)
		})
	}

	publicURL, appSubURL := grafanaURLs(grafanaOptions.URL, grafanaOptions.AppSubURL)

	dashboardsClient := client.Dashboards()
	if importOptions.DryRun {
		dashboardsClient = dashboards.NewDryRunDashboards(dashboardsClient, logger.WithField("component", "dry-run"))
	}

	log.Println("[ dry-run =", importOptions.DryRun, "]", "importing into", grafanaOptions.URL.Redacted())

	ctx, cancel := context.WithTimeout(context.Background(), importOptions.Timeout)
	defer cancel()

	err = run(ctx, func(ctx context.Context) error {
		registry, err := loadRegistry(ctx, importOptions.DatasourcesFile, sdkClient)
		if err != nil {
			return err
		}

		w := &workflow{
			importer: dashboards.NewImporter(
				clientWithDashboards{client, dashboardsClient},
				validation.NewNameValidator(sdkClient),
				registry,
				logger.WithField("component", "importer"),
			),
			saver: dashboards.NewSaver(
				dashboardsClient,
				dashboards.NavigatorFunc(func(path string) {
					fmt.Fprintln(os.Stdout, publicURL+appSubURL+path)
				}),
				appSubURL,
				logger.WithField("component", "saver"),
			),
			options: importOptions,
			logger:  logger.WithField("component", "workflow"),
		}
		return w.run(ctx, src)
	})
	if err != nil {
		log.Fatalf("import failed : %v", err)
	}
}

// run executes work until it returns or the process is told to stop.
func run(ctx context.Context, work func(context.Context) error) error {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	wg, ctx := errgroup.WithContext(ctx)

	done := make(chan struct{})
	wg.Go(func() error {
		defer close(done)
		return work(ctx)
	})

	select {
	case s := <-sig:
		log.Printf("received %v signal. Shutting down\n", s)
		cancel()
	case <-done:
	}

	return wg.Wait()
}

// clientWithDashboards swaps the dashboards client of a grafana.Interface,
// for dry runs.
type clientWithDashboards struct {
	grafana.Interface
	dashboards grafana.DashboardsInterface
}

func (c clientWithDashboards) Dashboards() grafana.DashboardsInterface {
	return c.dashboards
}

// grafanaURLs splits u into the root Grafana is reached through and the sub
// path it is served from. Neither ends with a slash.
func grafanaURLs(u *url.URL, appSubURL string) (publicURL, subURL string) {
	subURL = strings.TrimSuffix(appSubURL, "/")
	if appSubURL == "" {
		subURL = strings.TrimSuffix(u.Path, "/")
	}
	if subURL != "" && !strings.HasPrefix(subURL, "/") {
		subURL = "/" + subURL
	}

	publicURL = strings.TrimSuffix(u.String(), "/")
	publicURL = strings.TrimSuffix(publicURL, subURL)
	return publicURL, subURL
}

func loadRegistry(ctx context.Context, datasourcesFile string, lister datasources.Lister) (*datasources.Registry, error) {
	if datasourcesFile != "" {
		return datasources.LoadProvisioningFile(datasourcesFile)
	}
	return datasources.FromGrafana(ctx, lister)
}

func readFile(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func buildLogger(level string) *log.Logger {
	logger := log.New()
	logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if lvl, err := log.ParseLevel(level); err == nil {
		logger.SetLevel(lvl)
	}
	log.SetLevel(logger.GetLevel())
	return logger
}

func buildGrafanaClient(opts *GrafanaOptions) (grafana.Interface, error) {
	if opts.URL == nil {
		return nil, fmt.Errorf("an url is required")
	}

	if opts.Username == "" && opts.Password == "" {
		return grafana.NewWithApiKey(opts.URL, opts.APIKey)
	}

	return grafana.NewWithUserCredentials(opts.URL, opts.Username, opts.Password)
}

func buildSDKClient(opts *GrafanaOptions) (*sdk.Client, error) {
	auth := opts.APIKey
	if opts.Username != "" || opts.Password != "" {
		auth = opts.Username + ":" + opts.Password
	}
	return sdk.NewClient(opts.URL.String(), auth, sdk.DefaultHTTPClient)
}

func buildK8sClients(kubeconfig string) (kubernetes.Interface, error) {
	var (
		restConfig *rest.Config
		err        error
	)
	if kubeconfig != "" {
		restConfig, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
	} else {
		restConfig, err = rest.InClusterConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("could not build kubernetes configuration : %w", err)
	}

	return kubernetes.NewForConfig(restConfig)
}

func errorLogger() *log.Logger {
	logger := log.New()
	logger.SetOutput(os.Stderr)
	return logger
}
