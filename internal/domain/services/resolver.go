package services

import (
	"context"
	"regexp"
	"strings"

	"github.com/ersonp/campaign-core/internal/domain/entities"
)

// Default confidence thresholds for identity resolution. Both are
// overridable through ResolverOptions.
const (
	// DefaultAutoAcceptThreshold is the minimum fuzzy-match confidence at
	// which a resolution is accepted and learned without a human in the loop.
	DefaultAutoAcceptThreshold = 0.9
	// DefaultAliasReuseThreshold is the minimum stored confidence for a
	// learned alias to short-circuit fuzzy matching.
	DefaultAliasReuseThreshold = 0.5
)

// Fuzzy-match confidence tiers, highest first.
const (
	confidenceExact    = 1.0
	confidencePrefix   = 0.8
	confidenceContains = 0.6
)

var (
	// reBracketMarker matches ">[Name]" and the legacy ">>[Name]" form at
	// the start of a message.
	reBracketMarker = regexp.MustCompile(`^>{1,2}\[([^\]]+)\]`)
	// reBareMarker matches ">Name" with the name running to the first
	// whitespace.
	reBareMarker = regexp.MustCompile(`^>([^>\s\[]\S*)`)
	// markdownTrim holds the inline emphasis tokens stripped from a
	// captured name.
	markdownTrim = "*_~`"
)

// CharacterMatch is one fuzzy-match candidate with its confidence tier.
type CharacterMatch struct {
	CharacterID   string  `json:"characterId"`
	CharacterName string  `json:"characterName"`
	Confidence    float64 `json:"confidence"`
}

// Resolution is the outcome of resolving an extracted name for one author.
// Either CharacterID is set, or NeedsManualSelection is true and Candidates
// carries the ranked options.
type Resolution struct {
	CharacterID          string           `json:"characterId,omitempty"`
	Confidence           float64          `json:"confidence,omitempty"`
	ViaAlias             bool             `json:"viaAlias,omitempty"`
	NeedsManualSelection bool             `json:"needsManualSelection,omitempty"`
	Candidates           []CharacterMatch `json:"candidates,omitempty"`
}

// ResolverOptions carries the configurable confidence thresholds. Zero
// values fall back to the defaults.
type ResolverOptions struct {
	AutoAcceptThreshold float64
	AliasReuseThreshold float64
}

// ResolverService maps free-text author names from chat messages to
// canonical character identities: learned aliases first, deterministic fuzzy
// matching against the roster as fallback.
type ResolverService struct {
	dataset    *DatasetService
	autoAccept float64
	aliasReuse float64
}

// NewResolverService creates a new ResolverService.
func NewResolverService(dataset *DatasetService, opts ResolverOptions) *ResolverService {
	autoAccept := opts.AutoAcceptThreshold
	if autoAccept == 0 {
		autoAccept = DefaultAutoAcceptThreshold
	}
	aliasReuse := opts.AliasReuseThreshold
	if aliasReuse == 0 {
		aliasReuse = DefaultAliasReuseThreshold
	}
	return &ResolverService{dataset: dataset, autoAccept: autoAccept, aliasReuse: aliasReuse}
}

// ExtractCharacterName pulls the character name marker from the start of a
// message: ">[Name]", the legacy ">>[Name]", or a bare ">Name" token. Inline
// markdown emphasis is stripped from the captured name. Returns "" when the
// message carries no marker.
func ExtractCharacterName(text string) string {
	trimmed := strings.TrimSpace(text)

	if m := reBracketMarker.FindStringSubmatch(trimmed); m != nil {
		return cleanName(m[1])
	}
	if m := reBareMarker.FindStringSubmatch(trimmed); m != nil {
		return cleanName(m[1])
	}
	return ""
}

// cleanName strips markdown emphasis tokens and surrounding whitespace.
func cleanName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.Trim(name, markdownTrim)
	return strings.TrimSpace(name)
}

// FuzzyMatch scores the candidate name against every roster character:
// exact (case-insensitive, trimmed) 1.0, canonical-name-starts-with 0.8,
// canonical-name-contains 0.6. Matches are ordered by descending confidence;
// ties keep roster order so results are reproducible.
func FuzzyMatch(name string, characters []entities.Character) []CharacterMatch {
	needle := entities.NormalizeName(name)
	if needle == "" {
		return nil
	}

	var matches []CharacterMatch
	for i := range characters {
		canonical := entities.NormalizeName(characters[i].Name)
		var confidence float64
		switch {
		case canonical == needle:
			confidence = confidenceExact
		case strings.HasPrefix(canonical, needle):
			confidence = confidencePrefix
		case strings.Contains(canonical, needle):
			confidence = confidenceContains
		default:
			continue
		}
		matches = append(matches, CharacterMatch{
			CharacterID:   characters[i].ID,
			CharacterName: characters[i].Name,
			Confidence:    confidence,
		})
	}

	// Stable insertion sort by descending confidence keeps roster order
	// within a tier.
	for i := 1; i < len(matches); i++ {
		for j := i; j > 0 && matches[j].Confidence > matches[j-1].Confidence; j-- {
			matches[j], matches[j-1] = matches[j-1], matches[j]
		}
	}
	return matches
}

// Resolve maps an extracted name scoped to its author to a character id. A
// learned alias above the reuse threshold wins outright without touching the
// store; otherwise the top fuzzy match is auto-accepted and learned when it
// clears the auto-accept threshold, and anything weaker is routed to manual
// selection with the full ranked candidate list.
func (s *ResolverService) Resolve(ctx context.Context, name, authorID string) (*Resolution, error) {
	data, err := s.dataset.Discord(ctx)
	if err != nil {
		return nil, err
	}

	// An alias hit ends resolution with no further work; usage is recorded
	// on explicit confirmation, not on the read path.
	for i := range data.CharacterAliases {
		alias := &data.CharacterAliases[i]
		if alias.Matches(name, authorID) && alias.Confidence > s.aliasReuse {
			return &Resolution{
				CharacterID: alias.CharacterID,
				Confidence:  alias.Confidence,
				ViaAlias:    true,
			}, nil
		}
	}

	characters, err := s.dataset.Characters(ctx)
	if err != nil {
		return nil, err
	}

	matches := FuzzyMatch(name, characters)
	if len(matches) == 0 {
		return &Resolution{NeedsManualSelection: true}, nil
	}

	top := matches[0]
	if top.Confidence < s.autoAccept {
		return &Resolution{NeedsManualSelection: true, Candidates: matches}, nil
	}

	upsertAlias(data, name, authorID, top.CharacterID, top.Confidence)
	if err := s.dataset.SaveDiscord(ctx, data); err != nil {
		return nil, err
	}

	return &Resolution{CharacterID: top.CharacterID, Confidence: top.Confidence}, nil
}

// ConfirmMapping records a human-confirmed alias at confidence 1.0. Manual
// confirmation is never degraded by later automatic matches.
func (s *ResolverService) ConfirmMapping(ctx context.Context, name, characterID, authorID string) (*entities.CharacterAlias, error) {
	data, err := s.dataset.Discord(ctx)
	if err != nil {
		return nil, err
	}

	alias := upsertAlias(data, name, authorID, characterID, 1.0)
	if err := s.dataset.SaveDiscord(ctx, data); err != nil {
		return nil, err
	}
	return alias, nil
}

// ApplyAliasToMessages retro-tags every stored message from the author whose
// extracted name matches the alias (case- and whitespace-insensitive) with
// the resolved character id. Returns the number of messages tagged.
func (s *ResolverService) ApplyAliasToMessages(ctx context.Context, name, characterID, authorID string) (int, error) {
	data, err := s.dataset.Discord(ctx)
	if err != nil {
		return 0, err
	}

	needle := entities.NormalizeName(name)
	tagged := 0
	for i := range data.Messages {
		msg := &data.Messages[i]
		if msg.AuthorID != authorID {
			continue
		}
		if entities.NormalizeName(msg.ExtractedCharacterName) != needle {
			continue
		}
		if msg.CharacterID == characterID {
			continue
		}
		msg.CharacterID = characterID
		tagged++
	}

	if tagged > 0 {
		if err := s.dataset.SaveDiscord(ctx, data); err != nil {
			return 0, err
		}
	}
	return tagged, nil
}

// Aliases returns the learned alias table.
func (s *ResolverService) Aliases(ctx context.Context) ([]entities.CharacterAlias, error) {
	data, err := s.dataset.Discord(ctx)
	if err != nil {
		return nil, err
	}
	return data.CharacterAliases, nil
}

// upsertAlias writes or reinforces the alias for (name, authorID). Stored
// confidence is the max of all observed values; usage count only grows.
func upsertAlias(data *entities.DiscordData, name, authorID, characterID string, confidence float64) *entities.CharacterAlias {
	for i := range data.CharacterAliases {
		alias := &data.CharacterAliases[i]
		if alias.Matches(name, authorID) {
			alias.CharacterID = characterID
			alias.Reinforce(confidence)
			return alias
		}
	}

	alias := entities.NewAlias(name, authorID, characterID, confidence)
	data.CharacterAliases = append(data.CharacterAliases, *alias)
	return &data.CharacterAliases[len(data.CharacterAliases)-1]
}
