package resolver

import "context"

// Reserved item identifiers. SML is the mod loader: its versions live in
// the catalog but its dependency set is synthesized. SatisfactoryGame is
// the game itself, pinned by the caller and never resolved.
const (
	ItemSML  = "SML"
	ItemGame = "SatisfactoryGame"
)

// getItemData fetches (id, version)'s dependency metadata and materializes
// it into a Node. It never returns a node for ItemGame - the resolver never
// fabricates a game-version node, only consumes one the caller pinned.
func getItemData(ctx context.Context, catalog Catalog, cache ModCache, id, version string) (*Node, error) {
	switch id {
	case ItemGame:
		return nil, &InvalidLockfileOperationError{
			Msg: "the resolver never fabricates a " + ItemGame + " node",
		}

	case ItemSML:
		info, err := catalog.GetLoaderInfo(ctx, version)
		if err != nil {
			return nil, err
		}
		if info == nil {
			return nil, &ModNotFoundError{ID: ItemSML, Version: version}
		}
		coerced, ok := Coerce(info.GameVersion)
		if !ok {
			return nil, &InvalidLockfileOperationError{
				Msg: "loader " + version + " declared an uncoercible game version " + info.GameVersion,
			}
		}
		return &Node{
			ID:      ItemSML,
			Version: version,
			Dependencies: map[string]string{
				ItemGame: ">=" + coerced,
			},
		}, nil

	default:
		meta, err := cache.GetMetadata(ctx, id, version)
		if err != nil {
			return nil, err
		}
		deps := make(map[string]string, len(meta.Dependencies)+1)
		for k, v := range meta.Dependencies {
			deps[k] = v
		}
		if meta.LoaderVersion != "" {
			coerced, ok := Coerce(meta.LoaderVersion)
			if !ok {
				return nil, &InvalidLockfileOperationError{
					Msg: id + "@" + version + " declared an uncoercible loader version " + meta.LoaderVersion,
				}
			}
			deps[ItemSML] = ">=" + coerced
		}
		return &Node{
			ID:           id,
			Version:      version,
			Dependencies: deps,
		}, nil
	}
}
