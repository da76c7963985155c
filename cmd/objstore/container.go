package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quartzlabs/objectstore/pkg/objectstore"
)

var containerCmd = &cobra.Command{
	Use:   "container",
	Short: "Container operations",
}

var containerCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a container",
	Args:  cobra.ExactArgs(1),
	RunE:  runContainerCreate,
}

var containerRemoveCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Remove a container",
	Args:  cobra.ExactArgs(1),
	RunE:  runContainerRemove,
}

var containerListCmd = &cobra.Command{
	Use:   "ls <name>",
	Short: "List objects in a container",
	Args:  cobra.ExactArgs(1),
	RunE:  runContainerList,
}

var (
	containerMeta []string
	listPrefix    string
	listDelimiter string
	listMarker    string
	listLimit     int
)

func init() {
	containerCreateCmd.Flags().StringArrayVarP(&containerMeta, "meta", "m", nil, "metadata entry key=value (repeatable)")
	containerListCmd.Flags().StringVar(&listPrefix, "prefix", "", "only names starting with prefix")
	containerListCmd.Flags().StringVar(&listDelimiter, "delimiter", "", "roll up names at delimiter")
	containerListCmd.Flags().StringVar(&listMarker, "marker", "", "return names after marker")
	containerListCmd.Flags().IntVar(&listLimit, "limit", 0, "maximum number of names")

	containerCmd.AddCommand(containerCreateCmd, containerRemoveCmd, containerListCmd)
	rootCmd.AddCommand(containerCmd)
}

func parseMeta(entries []string) (objectstore.Metadata, error) {
	md := objectstore.Metadata{}
	for _, entry := range entries {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid metadata entry %q, want key=value", entry)
		}
		md[key] = value
	}
	return md, nil
}

func runContainerCreate(cmd *cobra.Command, args []string) error {
	store, err := buildStore()
	if err != nil {
		return err
	}

	container := objectstore.NewContainer(args[0])
	container.Metadata, err = parseMeta(containerMeta)
	if err != nil {
		return err
	}

	if err := store.CreateContainer(cmd.Context(), container); err != nil {
		return err
	}

	fmt.Printf("created container %s\n", container.Name)
	return nil
}

func runContainerRemove(cmd *cobra.Command, args []string) error {
	store, err := buildStore()
	if err != nil {
		return err
	}

	if err := store.RemoveContainer(cmd.Context(), objectstore.NewContainer(args[0])); err != nil {
		return err
	}

	fmt.Printf("removed container %s\n", args[0])
	return nil
}

func runContainerList(cmd *cobra.Command, args []string) error {
	store, err := buildStore()
	if err != nil {
		return err
	}

	objects, err := store.ListContainer(cmd.Context(), objectstore.NewContainer(args[0]), objectstore.ListOptions{
		Prefix:    listPrefix,
		Delimiter: listDelimiter,
		Marker:    listMarker,
		Limit:     listLimit,
	})
	if err != nil {
		return err
	}

	for _, object := range objects {
		fmt.Println(object.Name)
	}
	return nil
}
