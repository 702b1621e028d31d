package database_test

import (
	"database/sql"
	"errors"
	"os"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mlukasik/swift-registry/internal/database"
)

func TestDatabase(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Database Init Suite")
}

var _ = Describe("Database", func() {
	var (
		mockDB sqlmock.Sqlmock
		db     *sql.DB
		err    error
	)

	BeforeEach(func() {
		db, mockDB, err = sqlmock.New()
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		_ = db.Close()
	})

	Describe("ExecuteSchema", func() {
		It("should execute all non-empty queries from the schema file", func() {
			schemaContent := `
CREATE TABLE IF NOT EXISTS swift_codes (swift_code VARCHAR);
CREATE TABLE IF NOT EXISTS other (name VARCHAR);
`
			tmpFile, err := os.CreateTemp("", "schema-*.sql")
			Expect(err).NotTo(HaveOccurred())
			defer os.Remove(tmpFile.Name())
			_, err = tmpFile.Write([]byte(schemaContent))
			Expect(err).NotTo(HaveOccurred())
			tmpFile.Close()

			mockDB.ExpectExec("CREATE TABLE IF NOT EXISTS swift_codes").WillReturnResult(sqlmock.NewResult(1, 1))
			mockDB.ExpectExec("CREATE TABLE IF NOT EXISTS other").WillReturnResult(sqlmock.NewResult(1, 1))

			databaseInstance := &database.Database{DB: db}
			err = databaseInstance.ExecuteSchema(tmpFile.Name())
			Expect(err).NotTo(HaveOccurred())
			Expect(mockDB.ExpectationsWereMet()).NotTo(HaveOccurred())
		})

		It("should report a missing schema file as os.ErrNotExist", func() {
			databaseInstance := &database.Database{DB: db}
			err := databaseInstance.ExecuteSchema("/nonexistent/path/schema.sql")
			Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue())
		})

		It("should stop at the first failing statement", func() {
			tmpFile, err := os.CreateTemp("", "schema-*.sql")
			Expect(err).NotTo(HaveOccurred())
			defer os.Remove(tmpFile.Name())
			_, err = tmpFile.Write([]byte("CREATE TABLE IF NOT EXISTS broken (x VARCHAR);"))
			Expect(err).NotTo(HaveOccurred())
			tmpFile.Close()

			mockDB.ExpectExec("CREATE TABLE IF NOT EXISTS broken").WillReturnError(errors.New("syntax error"))

			databaseInstance := &database.Database{DB: db}
			err = databaseInstance.ExecuteSchema(tmpFile.Name())
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("failed to execute query"))
		})
	})
})
