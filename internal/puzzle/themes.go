package puzzle

// ThemeKey identifies a puzzle theme known to this client.
type ThemeKey string

const (
	ThemeMix               ThemeKey = "mix"
	ThemeAdvancedPawn      ThemeKey = "advancedPawn"
	ThemeAdvantage         ThemeKey = "advantage"
	ThemeAnastasiaMate     ThemeKey = "anastasiaMate"
	ThemeArabianMate       ThemeKey = "arabianMate"
	ThemeAttackingF2F7     ThemeKey = "attackingF2F7"
	ThemeAttraction        ThemeKey = "attraction"
	ThemeBackRankMate      ThemeKey = "backRankMate"
	ThemeBishopEndgame     ThemeKey = "bishopEndgame"
	ThemeBodenMate         ThemeKey = "bodenMate"
	ThemeCapturingDefender ThemeKey = "capturingDefender"
	ThemeCastling          ThemeKey = "castling"
	ThemeClearance         ThemeKey = "clearance"
	ThemeCrushing          ThemeKey = "crushing"
	ThemeDefensiveMove     ThemeKey = "defensiveMove"
	ThemeDeflection        ThemeKey = "deflection"
	ThemeDiscoveredAttack  ThemeKey = "discoveredAttack"
	ThemeDoubleBishopMate  ThemeKey = "doubleBishopMate"
	ThemeDoubleCheck       ThemeKey = "doubleCheck"
	ThemeDovetailMate      ThemeKey = "dovetailMate"
	ThemeEndgame           ThemeKey = "endgame"
	ThemeEnPassant         ThemeKey = "enPassant"
	ThemeEquality          ThemeKey = "equality"
	ThemeExposedKing       ThemeKey = "exposedKing"
	ThemeFork              ThemeKey = "fork"
	ThemeHangingPiece      ThemeKey = "hangingPiece"
	ThemeHookMate          ThemeKey = "hookMate"
	ThemeInterference      ThemeKey = "interference"
	ThemeIntermezzo        ThemeKey = "intermezzo"
	ThemeKillBoxMate       ThemeKey = "killBoxMate"
	ThemeKingsideAttack    ThemeKey = "kingsideAttack"
	ThemeKnightEndgame     ThemeKey = "knightEndgame"
	ThemeLong              ThemeKey = "long"
	ThemeMaster            ThemeKey = "master"
	ThemeMasterVsMaster    ThemeKey = "masterVsMaster"
	ThemeMate              ThemeKey = "mate"
	ThemeMateIn1           ThemeKey = "mateIn1"
	ThemeMateIn2           ThemeKey = "mateIn2"
	ThemeMateIn3           ThemeKey = "mateIn3"
	ThemeMateIn4           ThemeKey = "mateIn4"
	ThemeMateIn5           ThemeKey = "mateIn5"
	ThemeMiddlegame        ThemeKey = "middlegame"
	ThemeOneMove           ThemeKey = "oneMove"
	ThemeOpening           ThemeKey = "opening"
	ThemePawnEndgame       ThemeKey = "pawnEndgame"
	ThemePin               ThemeKey = "pin"
	ThemePromotion         ThemeKey = "promotion"
	ThemeQueenEndgame      ThemeKey = "queenEndgame"
	ThemeQueenRookEndgame  ThemeKey = "queenRookEndgame"
	ThemeQueensideAttack   ThemeKey = "queensideAttack"
	ThemeQuietMove         ThemeKey = "quietMove"
	ThemeRookEndgame       ThemeKey = "rookEndgame"
	ThemeSacrifice         ThemeKey = "sacrifice"
	ThemeShort             ThemeKey = "short"
	ThemeSkewer            ThemeKey = "skewer"
	ThemeSmotheredMate     ThemeKey = "smotheredMate"
	ThemeSuperGM           ThemeKey = "superGM"
	ThemeTrappedPiece      ThemeKey = "trappedPiece"
	ThemeUnderPromotion    ThemeKey = "underPromotion"
	ThemeVeryLong          ThemeKey = "veryLong"
	ThemeVukovicMate       ThemeKey = "vukovicMate"
	ThemeXRayAttack        ThemeKey = "xRayAttack"
	ThemeZugzwang          ThemeKey = "zugzwang"

	// ThemeUnsupported is returned for names the table does not know.
	// It never leaves this package in a decoded result.
	ThemeUnsupported ThemeKey = ""
)

var themeNames = func() map[string]ThemeKey {
	keys := []ThemeKey{
		ThemeMix, ThemeAdvancedPawn, ThemeAdvantage, ThemeAnastasiaMate,
		ThemeArabianMate, ThemeAttackingF2F7, ThemeAttraction, ThemeBackRankMate,
		ThemeBishopEndgame, ThemeBodenMate, ThemeCapturingDefender, ThemeCastling,
		ThemeClearance, ThemeCrushing, ThemeDefensiveMove, ThemeDeflection,
		ThemeDiscoveredAttack, ThemeDoubleBishopMate, ThemeDoubleCheck,
		ThemeDovetailMate, ThemeEndgame, ThemeEnPassant, ThemeEquality,
		ThemeExposedKing, ThemeFork, ThemeHangingPiece, ThemeHookMate,
		ThemeInterference, ThemeIntermezzo, ThemeKillBoxMate, ThemeKingsideAttack,
		ThemeKnightEndgame, ThemeLong, ThemeMaster, ThemeMasterVsMaster, ThemeMate,
		ThemeMateIn1, ThemeMateIn2, ThemeMateIn3, ThemeMateIn4, ThemeMateIn5,
		ThemeMiddlegame, ThemeOneMove, ThemeOpening, ThemePawnEndgame, ThemePin,
		ThemePromotion, ThemeQueenEndgame, ThemeQueenRookEndgame,
		ThemeQueensideAttack, ThemeQuietMove, ThemeRookEndgame, ThemeSacrifice,
		ThemeShort, ThemeSkewer, ThemeSmotheredMate, ThemeSuperGM,
		ThemeTrappedPiece, ThemeUnderPromotion, ThemeVeryLong, ThemeVukovicMate,
		ThemeXRayAttack, ThemeZugzwang,
	}
	m := make(map[string]ThemeKey, len(keys))
	for _, k := range keys {
		m[string(k)] = k
	}
	return m
}()

// LookupTheme resolves a wire name to its key, or ThemeUnsupported.
func LookupTheme(name string) ThemeKey {
	if k, ok := themeNames[name]; ok {
		return k
	}
	return ThemeUnsupported
}
