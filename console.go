package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"library-tracker/library"
)

// runConsole drives the numbered-menu front end: a register/login gate, then
// the catalog menu until logout or EOF. Logout drops back to the gate.
func runConsole(mgr *library.Manager) {
	sc := bufio.NewScanner(os.Stdin)
	for {
		userID, ok := gateMenu(sc, mgr)
		if !ok {
			return
		}
		if !sessionMenu(sc, mgr, userID) {
			return
		}
	}
}

// gateMenu loops until a login succeeds or the user exits. Returns the
// logged-in account id.
func gateMenu(sc *bufio.Scanner, mgr *library.Manager) (int64, bool) {
	for {
		fmt.Println("\nWelcome to the Library Tracker")
		fmt.Println("1. Register")
		fmt.Println("2. Login")
		fmt.Println("3. Exit")

		choice, ok := prompt(sc, "Enter your choice: ")
		if !ok {
			return 0, false
		}

		switch choice {
		case "1":
			handleRegister(sc, mgr)
		case "2":
			if userID, ok := handleLogin(sc, mgr); ok {
				return userID, true
			}
		case "3":
			return 0, false
		default:
			fmt.Println("Invalid choice. Please try again.")
		}
	}
}

// sessionMenu serves one logged-in session. Returns false when input ends,
// true when the user logs out.
func sessionMenu(sc *bufio.Scanner, mgr *library.Manager, userID int64) bool {
	for {
		fmt.Println("\nLibrary Tracker")
		fmt.Println("1. Display Books")
		fmt.Println("2. Borrow a Book")
		fmt.Println("3. Return a Book")
		fmt.Println("4. Add a Book")
		fmt.Println("5. Delete a Book")
		fmt.Println("6. Logout")

		choice, ok := prompt(sc, "Enter your choice: ")
		if !ok {
			return false
		}

		switch choice {
		case "1":
			handleDisplayBooks(mgr)
		case "2":
			handleBorrow(sc, mgr, userID)
		case "3":
			handleReturn(sc, mgr, userID)
		case "4":
			handleAddBook(sc, mgr)
		case "5":
			handleDeleteBook(sc, mgr)
		case "6":
			fmt.Println("Logging out...")
			return true
		default:
			fmt.Println("Invalid choice. Please try again.")
		}
	}
}

func handleRegister(sc *bufio.Scanner, mgr *library.Manager) {
	username, ok := prompt(sc, "Enter a username: ")
	if !ok {
		return
	}
	password, err := readPassword("Enter a password: ")
	if err != nil {
		fmt.Printf("Error reading password: %v\n", err)
		return
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		fmt.Printf("Error reading password: %v\n", err)
		return
	}

	_, err = mgr.Register(username, password, confirm)
	var vErr *library.ValidationError
	switch {
	case errors.Is(err, library.ErrPasswordMismatch):
		fmt.Println("Passwords do not match!")
	case errors.Is(err, library.ErrDuplicateUsername):
		fmt.Println("Username already exists. Try again.")
	case errors.As(err, &vErr):
		fmt.Printf("Error: %v\n", vErr)
	case err != nil:
		fmt.Printf("Error: %v\n", err)
	default:
		fmt.Println("Registration successful!")
	}
}

func handleLogin(sc *bufio.Scanner, mgr *library.Manager) (int64, bool) {
	username, ok := prompt(sc, "Enter your username: ")
	if !ok {
		return 0, false
	}
	password, err := readPassword("Enter your password: ")
	if err != nil {
		fmt.Printf("Error reading password: %v\n", err)
		return 0, false
	}

	userID, err := mgr.Login(username, password)
	if errors.Is(err, library.ErrInvalidCredentials) {
		fmt.Println("Invalid username or password.")
		return 0, false
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 0, false
	}
	fmt.Println("Login successful!")
	return userID, true
}

func handleDisplayBooks(mgr *library.Manager) {
	books, err := mgr.GetAllBooks()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(books) == 0 {
		fmt.Println("No books in the library.")
		return
	}

	fmt.Printf("%-5s %-35s %-25s %-10s %-8s %-15s %s\n", "ID", "Title", "Author", "Price", "Copies", "Category", "Publisher")
	fmt.Println(strings.Repeat("-", 115))
	for _, b := range books {
		fmt.Printf("%-5d %-35s %-25s %-10s %-8d %-15s %s\n",
			b.ID,
			truncateString(b.Title, 35),
			truncateString(b.Author, 25),
			b.Price,
			b.AvailableCopies,
			truncateString(b.Category, 15),
			b.Publisher)
	}
}

func handleBorrow(sc *bufio.Scanner, mgr *library.Manager, userID int64) {
	fmt.Println("Borrow by: 1. ID  2. Title  3. Category  4. Publisher")
	field, ok := pickField(sc)
	if !ok {
		return
	}
	value, ok := prompt(sc, "Enter the relevant information: ")
	if !ok || value == "" {
		return
	}

	book, err := mgr.BorrowBy(userID, field, value)
	switch {
	case errors.Is(err, library.ErrNotFound), errors.Is(err, library.ErrUnavailable):
		fmt.Println("Book is not available or does not exist.")
	case err != nil:
		fmt.Printf("Error: %v\n", err)
	default:
		fmt.Printf("Book borrowed successfully! You borrowed '%s' (Category: %s, Publisher: %s). Cost: %s.\n",
			book.Title, book.Category, book.Publisher, book.Price)
	}
}

func handleReturn(sc *bufio.Scanner, mgr *library.Manager, userID int64) {
	fmt.Println("Return by: 1. ID  2. Title  3. Category  4. Publisher")
	field, ok := pickField(sc)
	if !ok {
		return
	}
	value, ok := prompt(sc, "Enter the relevant information: ")
	if !ok || value == "" {
		return
	}

	book, err := mgr.ReturnBy(userID, field, value)
	switch {
	case errors.Is(err, library.ErrNotFound):
		fmt.Println("Book does not exist.")
	case errors.Is(err, library.ErrNotBorrowedByUser):
		fmt.Println("No record of this book being borrowed by you.")
	case err != nil:
		fmt.Printf("Error: %v\n", err)
	default:
		fmt.Printf("Book returned successfully! You returned '%s' (Category: %s, Publisher: %s).\n",
			book.Title, book.Category, book.Publisher)
	}
}

func handleAddBook(sc *bufio.Scanner, mgr *library.Manager) {
	title, ok := prompt(sc, "Enter the title of the book: ")
	if !ok {
		return
	}
	author, ok := prompt(sc, "Enter the author's name: ")
	if !ok {
		return
	}
	price, ok := prompt(sc, "Enter the price of the book: ")
	if !ok {
		return
	}
	copies, ok := prompt(sc, "Enter the number of available copies: ")
	if !ok {
		return
	}
	category, ok := prompt(sc, "Enter the book category: ")
	if !ok {
		return
	}
	publisher, ok := prompt(sc, "Enter the publisher's name: ")
	if !ok {
		return
	}

	if _, err := mgr.AddBook(title, author, price, copies, category, publisher); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Book '%s' added successfully!\n", strings.TrimSpace(title))
}

func handleDeleteBook(sc *bufio.Scanner, mgr *library.Manager) {
	fmt.Println("Delete by: 1. ID  2. Title")
	choice, ok := prompt(sc, "Enter method (1/2): ")
	if !ok {
		return
	}
	var field library.Field
	switch choice {
	case "1":
		field = library.FieldID
	case "2":
		field = library.FieldTitle
	default:
		fmt.Println("Invalid choice. Please try again.")
		return
	}
	value, ok := prompt(sc, "Enter the relevant information: ")
	if !ok || value == "" {
		return
	}

	book, err := mgr.DeleteBookBy(field, value)
	switch {
	case errors.Is(err, library.ErrNotFound):
		fmt.Println("Book not found.")
	case err != nil:
		fmt.Printf("Error: %v\n", err)
	default:
		fmt.Printf("Book '%s' deleted successfully!\n", book.Title)
	}
}

// pickField reads the 1-4 submenu shared by borrow and return.
func pickField(sc *bufio.Scanner) (library.Field, bool) {
	choice, ok := prompt(sc, "Enter method (1/2/3/4): ")
	if !ok {
		return library.FieldAny, false
	}
	switch choice {
	case "1":
		return library.FieldID, true
	case "2":
		return library.FieldTitle, true
	case "3":
		return library.FieldCategory, true
	case "4":
		return library.FieldPublisher, true
	default:
		fmt.Println("Invalid choice. Please try again.")
		return library.FieldAny, false
	}
}

func prompt(sc *bufio.Scanner, label string) (string, bool) {
	fmt.Print(label)
	if !sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(sc.Text()), true
}

// readPassword reads a password with terminal echo disabled.
func readPassword(label string) (string, error) {
	fmt.Print(label)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(bytePassword)), nil
}

func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength-3] + "..."
}
