package merkle_test

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/raklaptudirm/mtorrent/pkg/merkle"
)

func fillBlock(n int, b byte) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = b
	}
	return buf
}

// TestSingleBlockRoot covers scenario 2: a single 16 KiB file with
// P = 16 KiB has exactly one leaf, no padding, and a root equal to the
// plain SHA-256 of the block.
func TestSingleBlockRoot(t *testing.T) {
	block := fillBlock(merkle.BlockSize, 0xAB)

	tree := merkle.NewTree(merkle.BlockSize)
	tree.AddLeaf(merkle.LeafHash(block))

	want := sha256.Sum256(block)
	require.Equal(t, want, tree.Root())
	require.Empty(t, tree.PieceLayer())
	require.Equal(t, 1, tree.NPieces())
}

// TestTwoPieceRoot covers scenario 3: a 40 KiB file with P = 32 KiB has
// blocks_per_piece = 2, 3 real blocks, 1 pad block, 2 pieces (one full,
// one partial) and no pad pieces.
func TestTwoPieceRoot(t *testing.T) {
	const pieceLength = 32 * 1024
	blocks := [][]byte{
		fillBlock(merkle.BlockSize, 1),
		fillBlock(merkle.BlockSize, 2),
		fillBlock(merkle.BlockSize, 3),
	}

	tree := merkle.NewTree(pieceLength)
	for _, b := range blocks {
		tree.AddLeaf(merkle.LeafHash(b))
	}

	require.Equal(t, 2, tree.NPieces())

	var zero32 [32]byte
	leaf0, leaf1, leaf2 := sha256.Sum256(blocks[0]), sha256.Sum256(blocks[1]), sha256.Sum256(blocks[2])

	piece0 := internalHash(leaf0, leaf1)
	piece1 := internalHash(leaf2, zero32)
	wantRoot := internalHash(piece0, piece1)
	wantLayer := append(append([]byte{}, piece0[:]...), piece1[:]...)

	require.Equal(t, wantRoot, tree.Root())
	require.Equal(t, wantLayer, tree.PieceLayer())
}

// TestPaddingLaw checks the three BEP-52 padding-law clauses across a
// range of block counts and piece sizes.
func TestPaddingLaw(t *testing.T) {
	const blockSize = merkle.BlockSize

	cases := []struct {
		pieceLength uint64
		nBlocks     int
	}{
		{blockSize, 1},
		{blockSize * 2, 1},
		{blockSize * 2, 3},
		{blockSize * 4, 5},
		{blockSize * 4, 9},
	}

	for _, c := range cases {
		tree := merkle.NewTree(c.pieceLength)
		for i := 0; i < c.nBlocks; i++ {
			tree.AddLeaf(merkle.LeafHash(fillBlock(blockSize, byte(i+1))))
		}

		q := int(c.pieceLength / blockSize)
		nPieces := tree.NPieces()

		if nPieces <= 1 {
			total := nextPow2(max(c.nBlocks, 1))
			require.True(t, isPow2(total), "n_blocks+n_pad_blocks must be a power of two")
		} else {
			padBlocks := (q - (c.nBlocks % q)) % q
			require.Equal(t, 0, (c.nBlocks+padBlocks)%q, "n_blocks+n_pad_blocks must be a multiple of Q")

			padPieces := nextPow2(nPieces) - nPieces
			require.True(t, isPow2(nPieces+padPieces), "n_pieces+n_pad_pieces must be a power of two")
		}
	}
}

func internalHash(left, right [32]byte) [32]byte {
	var buf [64]byte
	copy(buf[:32], left[:])
	copy(buf[32:], right[:])
	return sha256.Sum256(buf[:])
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func isPow2(n int) bool {
	return n > 0 && n&(n-1) == 0
}
