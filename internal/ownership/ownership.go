// Package ownership grafts a player's state document into a world's level
// document so the world is owned by that player.
package ownership

import (
	"fmt"

	"github.com/louisbranch/savegraft/internal/nbt"
	apperrors "github.com/louisbranch/savegraft/internal/platform/errors"
)

const (
	dataKey   = "Data"
	playerKey = "Player"
)

// PlayerPath is where a level document keeps its owner record.
var PlayerPath = nbt.Path{nbt.Key(dataKey), nbt.Key(playerKey)}

// Graft replaces the Data.Player child of target with a deep copy of the
// whole source root. The source is not merged field by field. Grafting the
// same source again leaves target unchanged. target is modified in place and
// returned.
func Graft(target, source *nbt.Document) (*nbt.Document, error) {
	if source == nil || source.Root.Kind() != nbt.KindCompound {
		return nil, apperrors.New(apperrors.CodeFormat, "source document has no compound root")
	}
	var root *nbt.Tag
	if target != nil {
		root = target.Root
	}
	data, err := nbt.Lookup(root, nbt.Key(dataKey))
	if err != nil {
		return nil, err
	}
	if data.Kind() != nbt.KindCompound {
		return nil, apperrors.WithMetadata(
			apperrors.CodePathNotFound,
			fmt.Sprintf("%s is %s, want compound", dataKey, data.Kind()),
			map[string]string{"Path": dataKey, "Missing": dataKey},
		)
	}
	if err := data.Set(playerKey, source.Root.Clone()); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeFormat, "set "+PlayerPath.String(), err)
	}
	return target, nil
}

// ValidatePlayer checks that doc looks like a per-player document: an Int
// XpLevel and a Pos list of three Doubles.
func ValidatePlayer(doc *nbt.Document) error {
	if doc == nil {
		return invalidPlayer("document", "document is missing")
	}
	xp, err := doc.Lookup(nbt.Key("XpLevel"))
	if err != nil {
		return invalidPlayer("XpLevel", "XpLevel is missing")
	}
	if xp.Kind() != nbt.KindInt {
		return invalidPlayer("XpLevel", fmt.Sprintf("XpLevel is %s, want int", xp.Kind()))
	}
	pos, err := doc.Lookup(nbt.Key("Pos"))
	if err != nil {
		return invalidPlayer("Pos", "Pos is missing")
	}
	if pos.Kind() != nbt.KindList || pos.Len() != 3 {
		return invalidPlayer("Pos", "Pos must be a list of 3 coordinates")
	}
	if pos.ElemKind() != nbt.KindDouble {
		return invalidPlayer("Pos", fmt.Sprintf("Pos holds %s, want double", pos.ElemKind()))
	}
	return nil
}

func invalidPlayer(field, message string) error {
	return apperrors.WithMetadata(apperrors.CodeInvalidPlayer, message, map[string]string{"Field": field})
}
