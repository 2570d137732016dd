package modrinth

import (
	"errors"
	"fmt"
	"os"
	"strings"

	modrinthApi "codeberg.org/jmansfield/go-modrinth/modrinth"
	"github.com/mcmpmgr/mcmpmgr/cmd"
	"github.com/mcmpmgr/mcmpmgr/core"
	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"
)

var modrinthCmd = &cobra.Command{
	Use:     "modrinth",
	Aliases: []string{"mr"},
	Short:   "Search and browse Modrinth projects",
}

var mrDefaultClient = modrinthApi.NewClient(core.HTTPClient)

func init() {
	cmd.Add(modrinthCmd)
	core.Providers[core.ModrinthProvider] = NewProvider(clientAPI{mrDefaultClient})

	mrDefaultClient.UserAgent = core.UserAgent
}

// catalogAPI is the subset of the Modrinth API used to resolve mods
type catalogAPI interface {
	ListVersions(projectID string, options modrinthApi.ListVersionsOptions) ([]*modrinthApi.Version, error)
	GetVersion(versionID string) (*modrinthApi.Version, error)
	GetProject(projectID string) (*modrinthApi.Project, error)
}

type clientAPI struct {
	client *modrinthApi.Client
}

func (c clientAPI) ListVersions(projectID string, options modrinthApi.ListVersionsOptions) ([]*modrinthApi.Version, error) {
	return c.client.Versions.ListVersions(projectID, options)
}

func (c clientAPI) GetVersion(versionID string) (*modrinthApi.Version, error) {
	return c.client.Versions.Get(versionID)
}

func (c clientAPI) GetProject(projectID string) (*modrinthApi.Project, error) {
	return c.client.Projects.Get(projectID)
}

func getProjectIdsViaSearch(query string, versions []string) ([]*modrinthApi.SearchResult, error) {
	facets := make([]string, 0)
	for _, v := range versions {
		facets = append(facets, "versions:"+v)
	}

	res, err := mrDefaultClient.Projects.Search(&modrinthApi.SearchOptions{
		Limit:  5,
		Index:  "relevance",
		Facets: [][]string{facets},
		Query:  query,
	})

	if err != nil {
		return nil, err
	}
	return res.Hits, nil
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search Modrinth for mods matching the pack's Minecraft version",
	Args:  cobra.MinimumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		pack, err := core.LoadPack(cmd.PackDir())
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		hits, err := getProjectIdsViaSearch(strings.Join(args, " "), []string{pack.MCVersion})
		if err != nil {
			fmt.Printf("Failed to search Modrinth: %v\n", err)
			os.Exit(1)
		}
		if len(hits) == 0 {
			fmt.Println("No projects found!")
			os.Exit(1)
		}
		for _, hit := range hits {
			fmt.Printf("%s\t%s\n", deref(hit.Slug), deref(hit.Title))
		}
	},
}

var browseCmd = &cobra.Command{
	Use:   "browse [mod]",
	Short: "Open the Modrinth page of a mod in the browser",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		spec, err := core.ParseModSpec(args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		project, err := mrDefaultClient.Projects.Get(spec.Name)
		if err != nil {
			fmt.Printf("Failed to fetch project %s: %v\n", spec.Name, err)
			os.Exit(1)
		}
		pageURL, err := projectURL(project)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Printf("Opening %s\n", pageURL)
		if err := open.Start(pageURL); err != nil {
			fmt.Printf("Failed to open browser: %v\n", err)
			os.Exit(1)
		}
	},
}

func projectURL(project *modrinthApi.Project) (string, error) {
	slug := deref(project.Slug)
	if slug == "" {
		slug = deref(project.ID)
	}
	if slug == "" {
		return "", errors.New("project has no slug or id")
	}
	projectType := deref(project.ProjectType)
	if projectType == "" {
		projectType = "mod"
	}
	return "https://modrinth.com/" + projectType + "/" + slug, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func init() {
	modrinthCmd.AddCommand(searchCmd)
	modrinthCmd.AddCommand(browseCmd)
}
