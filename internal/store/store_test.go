package store

import (
	"path/filepath"
	"testing"

	"sales-admin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// StoreTestSuite provides a test suite for credential store operations
type StoreTestSuite struct {
	suite.Suite
	store *Store
}

// SetupTest runs before each test
func (suite *StoreTestSuite) SetupTest() {
	path := filepath.Join(suite.T().TempDir(), "credentials.db")
	st, err := Open(path)
	require.NoError(suite.T(), err, "failed to open test store")
	suite.store = st
}

// TearDownTest runs after each test
func (suite *StoreTestSuite) TearDownTest() {
	if suite.store != nil {
		suite.store.Close()
	}
}

func (suite *StoreTestSuite) profile() *models.User {
	return &models.User{ID: 7, Name: "Maria Alves", Login: "maria", AccessLevel: models.LevelAdmin}
}

func (suite *StoreTestSuite) TestLoadEmptyStore() {
	token, profile, ok := suite.store.Load()
	assert.False(suite.T(), ok)
	assert.Empty(suite.T(), token)
	assert.Nil(suite.T(), profile)
}

func (suite *StoreTestSuite) TestSaveLoadRoundTrip() {
	suite.store.Save("tok-123", suite.profile())

	token, profile, ok := suite.store.Load()
	require.True(suite.T(), ok)
	assert.Equal(suite.T(), "tok-123", token)
	require.NotNil(suite.T(), profile)
	assert.Equal(suite.T(), "maria", profile.Login)
	assert.Equal(suite.T(), models.LevelAdmin, profile.AccessLevel)
}

func (suite *StoreTestSuite) TestSaveOverwrites() {
	suite.store.Save("tok-old", suite.profile())
	suite.store.Save("tok-new", &models.User{ID: 8, Name: "Ana", Login: "ana", AccessLevel: models.LevelManager})

	token, profile, ok := suite.store.Load()
	require.True(suite.T(), ok)
	assert.Equal(suite.T(), "tok-new", token)
	assert.Equal(suite.T(), "ana", profile.Login)
}

func (suite *StoreTestSuite) TestClearRemovesBoth() {
	suite.store.Save("tok-123", suite.profile())
	suite.store.Clear()

	_, _, ok := suite.store.Load()
	assert.False(suite.T(), ok)
	_, ok = suite.store.Token()
	assert.False(suite.T(), ok)
}

func (suite *StoreTestSuite) TestClearIsIdempotent() {
	suite.store.Clear()
	suite.store.Clear()
	_, _, ok := suite.store.Load()
	assert.False(suite.T(), ok)
}

func (suite *StoreTestSuite) TestToken() {
	_, ok := suite.store.Token()
	assert.False(suite.T(), ok)

	suite.store.Save("tok-123", suite.profile())
	token, ok := suite.store.Token()
	require.True(suite.T(), ok)
	assert.Equal(suite.T(), "tok-123", token)
}

func (suite *StoreTestSuite) TestCorruptTokenSelfHeals() {
	suite.store.Save("tok-123", suite.profile())

	// Overwrite the sealed token with bytes no key can open.
	_, err := suite.store.conn.Exec("UPDATE credentials SET value = ? WHERE name = ?", []byte("garbage"), keyToken)
	require.NoError(suite.T(), err)

	_, _, ok := suite.store.Load()
	assert.False(suite.T(), ok, "corrupt entry should read as absent")

	// The corrupt pair must have been purged, not left to fail again.
	var count int
	err = suite.store.conn.QueryRow("SELECT COUNT(*) FROM credentials").Scan(&count)
	require.NoError(suite.T(), err)
	assert.Zero(suite.T(), count)
}

func (suite *StoreTestSuite) TestCorruptProfileSelfHeals() {
	suite.store.Save("tok-123", suite.profile())

	sealed, err := suite.store.seal([]byte("not json"))
	require.NoError(suite.T(), err)
	_, err = suite.store.conn.Exec("UPDATE credentials SET value = ? WHERE name = ?", sealed, keyProfile)
	require.NoError(suite.T(), err)

	_, _, ok := suite.store.Load()
	assert.False(suite.T(), ok)

	_, ok = suite.store.Token()
	assert.False(suite.T(), ok, "token should be purged along with the bad profile")
}

func (suite *StoreTestSuite) TestValuesSealedAtRest() {
	suite.store.Save("tok-123", suite.profile())

	var raw []byte
	err := suite.store.conn.QueryRow("SELECT value FROM credentials WHERE name = ?", keyToken).Scan(&raw)
	require.NoError(suite.T(), err)
	assert.NotContains(suite.T(), string(raw), "tok-123", "token must not be stored in the clear")
}

func (suite *StoreTestSuite) TestReopenKeepsCredentials() {
	path := filepath.Join(suite.T().TempDir(), "credentials.db")
	st, err := Open(path)
	require.NoError(suite.T(), err)
	st.Save("tok-persist", suite.profile())
	require.NoError(suite.T(), st.Close())

	reopened, err := Open(path)
	require.NoError(suite.T(), err)
	defer reopened.Close()

	token, profile, ok := reopened.Load()
	require.True(suite.T(), ok)
	assert.Equal(suite.T(), "tok-persist", token)
	assert.Equal(suite.T(), int64(7), profile.ID)
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}
