package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/quartzlabs/objectstore/pkg/objectstore"
)

var objectCmd = &cobra.Command{
	Use:   "object",
	Short: "Object operations",
}

var objectPutCmd = &cobra.Command{
	Use:   "put <container> <name> [file]",
	Short: "Write an object from a file or stdin",
	Args:  cobra.RangeArgs(2, 3),
	RunE:  runObjectPut,
}

var objectGetCmd = &cobra.Command{
	Use:   "get <container> <name>",
	Short: "Write object content to stdout",
	Args:  cobra.ExactArgs(2),
	RunE:  runObjectGet,
}

var objectRemoveCmd = &cobra.Command{
	Use:   "rm <container> <name>",
	Short: "Remove an object",
	Args:  cobra.ExactArgs(2),
	RunE:  runObjectRemove,
}

var (
	objectMeta     []string
	objectChecksum string
)

func init() {
	objectPutCmd.Flags().StringArrayVarP(&objectMeta, "meta", "m", nil, "metadata entry key=value (repeatable)")
	objectPutCmd.Flags().StringVar(&objectChecksum, "checksum", "", "expected MD5 checksum")

	objectCmd.AddCommand(objectPutCmd, objectGetCmd, objectRemoveCmd)
	rootCmd.AddCommand(objectCmd)
}

func runObjectPut(cmd *cobra.Command, args []string) error {
	store, err := buildStore()
	if err != nil {
		return err
	}

	object := objectstore.NewObject(objectstore.NewContainer(args[0]), args[1])
	object.Metadata, err = parseMeta(objectMeta)
	if err != nil {
		return err
	}

	var content io.Reader = os.Stdin
	if len(args) == 3 {
		file, err := os.Open(args[2])
		if err != nil {
			return err
		}
		defer file.Close()
		content = file
	}

	if err := store.UpdateObject(cmd.Context(), object, content, objectChecksum); err != nil {
		return err
	}

	fmt.Printf("wrote %s\n", object.Path())
	return nil
}

func runObjectGet(cmd *cobra.Command, args []string) error {
	store, err := buildStore()
	if err != nil {
		return err
	}

	object := objectstore.NewObject(objectstore.NewContainer(args[0]), args[1])
	file, err := store.ObjectFile(cmd.Context(), object)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = io.Copy(os.Stdout, file)
	return err
}

func runObjectRemove(cmd *cobra.Command, args []string) error {
	store, err := buildStore()
	if err != nil {
		return err
	}

	object := objectstore.NewObject(objectstore.NewContainer(args[0]), args[1])
	if err := store.RemoveObject(cmd.Context(), object); err != nil {
		return err
	}

	fmt.Printf("removed %s\n", object.Path())
	return nil
}
