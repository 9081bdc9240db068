package board

import "fmt"

// Move packs a chess move into 32 bits:
//
//	bits 0-5:   from square
//	bits 6-11:  to square
//	bits 12-15: moving piece kind
//	bits 16-19: captured piece kind (NoPieceType sentinel = no capture)
//	bits 20-23: promotion piece kind (NoPieceType sentinel = no promotion)
//	bits 24-28: flags
type Move uint32

// Flag bits, distinct from the piece-kind fields so a capture of a pawn
// can never be confused with "no capture".
const (
	FlagEnPassant   Move = 1 << 24
	FlagCastleKing  Move = 1 << 25
	FlagCastleQueen Move = 1 << 26
	FlagPromotion   Move = 1 << 27
	FlagCapture     Move = 1 << 28
)

const (
	moveFromShift    = 0
	moveToShift      = 6
	movePieceShift   = 12
	moveCapturedShift = 16
	movePromoShift   = 20
	fieldMask        = 0xF
	squareMask       = 0x3F
)

// NoMove is the null move (UCI "0000").
const NoMove Move = 0

// NewMove builds a move, filling in capture/promotion sentinels as
// NoPieceType unless the corresponding flag and kind are supplied via
// WithCapture/WithPromotion.
func NewMove(from, to Square, piece PieceType) Move {
	return Move(from)<<moveFromShift |
		Move(to)<<moveToShift |
		Move(piece)<<movePieceShift |
		Move(NoPieceType)<<moveCapturedShift |
		Move(NoPieceType)<<movePromoShift
}

// WithCapture marks the move as a capture of the given piece kind.
func (m Move) WithCapture(captured PieceType) Move {
	m &^= Move(fieldMask) << moveCapturedShift
	return m | Move(captured)<<moveCapturedShift | FlagCapture
}

// WithEnPassant marks the move as an en-passant capture (always of a pawn).
func (m Move) WithEnPassant() Move {
	return m.WithCapture(Pawn) | FlagEnPassant
}

// WithPromotion marks the move as a promotion to the given piece kind.
func (m Move) WithPromotion(promo PieceType) Move {
	m &^= Move(fieldMask) << movePromoShift
	return m | Move(promo)<<movePromoShift | FlagPromotion
}

// WithCastle marks the move as castling (king-side if kingSide).
func (m Move) WithCastle(kingSide bool) Move {
	if kingSide {
		return m | FlagCastleKing
	}
	return m | FlagCastleQueen
}

// From returns the origin square.
func (m Move) From() Square { return Square(m >> moveFromShift & squareMask) }

// To returns the destination square.
func (m Move) To() Square { return Square(m >> moveToShift & squareMask) }

// Piece returns the moving piece's kind.
func (m Move) Piece() PieceType { return PieceType(m >> movePieceShift & fieldMask) }

// Captured returns the captured piece kind, or NoPieceType if none.
func (m Move) Captured() PieceType { return PieceType(m >> moveCapturedShift & fieldMask) }

// PromotionPiece returns the promotion piece kind, or NoPieceType if none.
func (m Move) PromotionPiece() PieceType { return PieceType(m >> movePromoShift & fieldMask) }

// IsCapture reports whether this move captures a piece (including en passant).
func (m Move) IsCapture() bool { return m&FlagCapture != 0 }

// IsEnPassant reports whether this move is an en-passant capture.
func (m Move) IsEnPassant() bool { return m&FlagEnPassant != 0 }

// IsPromotion reports whether this move promotes a pawn.
func (m Move) IsPromotion() bool { return m&FlagPromotion != 0 }

// IsCastle reports whether this move castles, either side.
func (m Move) IsCastle() bool { return m&(FlagCastleKing|FlagCastleQueen) != 0 }

// IsCastleKingSide reports king-side castling.
func (m Move) IsCastleKingSide() bool { return m&FlagCastleKing != 0 }

// IsCastleQueenSide reports queen-side castling.
func (m Move) IsCastleQueenSide() bool { return m&FlagCastleQueen != 0 }

// IsQuiet reports whether the move is neither a capture nor a promotion.
func (m Move) IsQuiet() bool { return !m.IsCapture() && !m.IsPromotion() }

// String renders the move in long algebraic UCI notation, e.g. "e2e4", "e7e8q".
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string("?nbrq?"[m.PromotionPiece()])
	}
	return s
}

// ParseMove parses a long algebraic UCI move string against the given
// position, reconstructing the capture/promotion/castle/en-passant flags
// the wire format itself does not carry.
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) < 4 {
		return NoMove, fmt.Errorf("invalid move %q", s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}
	piece := pos.PieceAt(from)
	if piece == NoPiece {
		return NoMove, fmt.Errorf("no piece on %s", from)
	}
	pt := piece.Type()

	mv := NewMove(from, to, pt)

	if len(s) == 5 {
		var promo PieceType
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove, fmt.Errorf("invalid promotion piece %q", s[4])
		}
		mv = mv.WithPromotion(promo)
	}

	if pt == King && abs(int(to)-int(from)) == 2 {
		mv = mv.WithCastle(to > from)
		return mv, nil
	}

	if pt == Pawn && to == pos.EnPassant && pos.EnPassant != NoSquare {
		return mv.WithEnPassant(), nil
	}

	if captured := pos.PieceAt(to); captured != NoPiece {
		mv = mv.WithCapture(captured.Type())
	}

	return mv, nil
}

// MoveList is a fixed-capacity move buffer, avoiding per-call allocation.
type MoveList struct {
	moves [256]Move
	count int
}

// Add appends a move.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves stored.
func (ml *MoveList) Len() int { return ml.count }

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move { return ml.moves[i] }

// Swap exchanges two moves.
func (ml *MoveList) Swap(i, j int) { ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i] }

// Contains reports whether m is present in the list.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the stored moves.
func (ml *MoveList) Slice() []Move { return ml.moves[:ml.count] }

// UndoInfo stores the information needed to reverse a MakeMove call in
// constant time, without recomputing anything from the board.
type UndoInfo struct {
	CapturedPiece     Piece
	CastlingRights    CastlingRights
	EnPassant         Square
	HalfMoveClock     int
	Hash              uint64
	Checkers          Bitboard
	HistoryLen        int
	IrreversibleIndex int
	Valid             bool // true if the move was actually applied
}
