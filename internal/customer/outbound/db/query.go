package db

const (
	customerColumns = `id, phone, name, age, gender, created_at, updated_at`

	queryGetCustomerByPhone = `SELECT ` + customerColumns + ` FROM customers WHERE phone = $1`

	queryGetCustomerByID = `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	queryCreateCustomer = `INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
)
