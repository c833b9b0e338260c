package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/illarion/spam/internal/core"
	"github.com/illarion/spam/internal/prompt"
	"github.com/spf13/cobra"
)

// Menu entries, numbered from 1
const (
	menuList = iota + 1
	menuAdd
	menuShow
	menuUpdate
	menuRemove
	menuRename
	menuSearch
	menuQuit
)

var menuLabels = []string{
	"List all available secrets",
	"Add secret",
	"Show secret",
	"Update secret",
	"Remove secret",
	"Rename secret",
	"Search secrets",
	"Quit",
}

func newMenuCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Unlock once and work interactively",
		Long: `Unlocks the vault once and offers a numbered menu of operations
until Quit is chosen or input ends. Changes are saved after each one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withVault(cmd.Context(), func(s *session) error {
				return app.menu(cmd.Context(), s)
			})
		},
	}
}

func (a *App) menu(ctx context.Context, s *session) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		choice, err := a.Prompt.MenuChoice(menuLabels)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		switch choice {
		case menuQuit:
			return nil
		case prompt.NoChoice:
			a.Log.Warnf("Please pick a number between 1 and %d", len(menuLabels))
			continue
		}

		if err := a.menuAction(ctx, s, choice); err != nil {
			if !recoverable(err) {
				return err
			}
			HandleError(a.Log, err)
		}
	}
}

func (a *App) menuAction(ctx context.Context, s *session, choice int) error {
	if choice == menuList {
		return a.list(s)
	}
	if choice == menuSearch {
		pattern, err := a.Prompt.SearchPattern()
		if err != nil {
			return err
		}
		return a.search(s, pattern)
	}

	name, err := a.Prompt.AccountName("Please enter account name: ")
	if err != nil {
		return err
	}

	switch choice {
	case menuAdd:
		return a.add(ctx, s, name)
	case menuShow:
		return a.show(s, name)
	case menuUpdate:
		return a.update(ctx, s, name)
	case menuRemove:
		return a.remove(ctx, s, name)
	case menuRename:
		return a.rename(ctx, s, name, "")
	}
	return fmt.Errorf("unknown menu entry %d", choice)
}

// recoverable errors are reported and the menu continues
func recoverable(err error) bool {
	return errors.Is(err, core.ErrAccountNotFound) ||
		errors.Is(err, core.ErrAlreadyExists) ||
		errors.Is(err, core.ErrBlankName) ||
		errors.Is(err, core.ErrInvalidName)
}
