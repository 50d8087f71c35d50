// package tasks implements the batch operations over the playlist library:
// cache refresh, consistency scanning, and removed-track purging.
package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"crates/internal/cache"
	"crates/internal/services"
)

// RefreshCaches rebuilds every category cache file wholesale from the remote
// library. Only playlists owned by the current user are considered; registry
// names with no matching remote playlist are reported and skipped.
func RefreshCaches(ctx context.Context, svc services.Service, dir string, logger *log.Logger) error {
	userID, err := svc.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	remotes, err := svc.FollowedPlaylists(ctx)
	if err != nil {
		return err
	}

	byName := map[string]services.Playlist{}
	for _, pl := range remotes {
		if pl.OwnerID == userID {
			byName[pl.Name] = pl
		}
	}

	for _, category := range cache.Categories() {
		group := cache.NewGroup()

		for _, name := range category.Names {
			remote, ok := byName[name]
			if !ok {
				logger.Warn("no playlist found in library", "name", name)
				continue
			}

			logger.Info("refreshing", "playlist", remote.Name, "id", remote.ID)
			items, err := svc.PlaylistItems(ctx, remote.ID)
			if err != nil {
				return fmt.Errorf("failed to refresh %q: %w", remote.Name, err)
			}

			pl := cache.NewPlaylist(remote.ID, remote.Name)
			for _, item := range items {
				if item.Track.ID != "" {
					pl.AddTrack(item.Track.ID)
				}
			}
			group.AddPlaylist(pl)
		}

		path := cache.FilePath(dir, category.Key)
		if err := group.WriteFile(path); err != nil {
			return err
		}
		logger.Info("cache rebuilt", "file", category.Key, "playlists", group.Len())
	}

	return nil
}
