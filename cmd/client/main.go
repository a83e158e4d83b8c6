package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rl1809/product-catalog/internal/adapter/client"
	"github.com/rl1809/product-catalog/internal/adapter/handler/pb"
	"github.com/rl1809/product-catalog/internal/config"
	"github.com/rl1809/product-catalog/internal/obs"
)

var (
	configPath string
	serverAddr string

	productID   int64
	name        string
	description string
	price       int64
	category    string
	stock       int64

	page     int32
	pageSize int32
)

// getClient builds a client from the config file, env and the --addr flag.
func getClient() (*client.ProductClient, error) {
	cfg, err := config.LoadClient(configPath)
	if err != nil {
		return nil, err
	}
	if serverAddr != "" {
		cfg.ServerAddress = serverAddr
	}
	logger := obs.NewLogger(os.Stderr, cfg.LogFormat, obs.ParseLevel(cfg.LogLevel))
	return client.NewProductClient(cfg, logger)
}

func printProduct(p *pb.Product) {
	fmt.Printf("#%d %s [%s] price=%d stock=%d created=%s updated=%s\n",
		p.GetId(), p.GetName(), p.Category, p.Price, p.Stock, p.CreatedAt, p.UpdatedAt)
	if p.Description != "" {
		fmt.Printf("    %s\n", p.Description)
	}
}

var rootCmd = &cobra.Command{
	Use:          "catalog-client",
	Short:        "Interact with the product catalog server",
	SilenceUsage: true,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List one page of products",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient()
		if err != nil {
			return err
		}
		defer c.Close()

		resp, err := c.ListProducts(cmd.Context(), page, pageSize, category)
		if err != nil {
			return err
		}
		for _, p := range resp.Products {
			printProduct(p)
		}
		fmt.Printf("total: %d\n", resp.TotalCount)
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a product by ID",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient()
		if err != nil {
			return err
		}
		defer c.Close()

		resp, err := c.GetProduct(cmd.Context(), productID)
		if err != nil {
			return err
		}
		if !resp.Success {
			fmt.Println(resp.Message)
			return nil
		}
		printProduct(resp.Product)
		return nil
	},
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new product",
	RunE: func(cmd *cobra.Command, args []string) error {
		if name == "" {
			return errors.New("--name must be specified")
		}
		c, err := getClient()
		if err != nil {
			return err
		}
		defer c.Close()

		resp, err := c.CreateProduct(cmd.Context(), &pb.CreateProductRequest{
			Name:        name,
			Description: description,
			Price:       price,
			Category:    category,
			Stock:       stock,
		})
		if err != nil {
			return err
		}
		fmt.Println(resp.Message)
		if resp.Product != nil {
			printProduct(resp.Product)
		}
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Replace a product's fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient()
		if err != nil {
			return err
		}
		defer c.Close()

		resp, err := c.UpdateProduct(cmd.Context(), &pb.UpdateProductRequest{
			Id:          productID,
			Name:        name,
			Description: description,
			Price:       price,
			Category:    category,
			Stock:       stock,
		})
		if err != nil {
			return err
		}
		fmt.Println(resp.Message)
		if resp.Product != nil {
			printProduct(resp.Product)
		}
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a product by ID",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient()
		if err != nil {
			return err
		}
		defer c.Close()

		resp, err := c.DeleteProduct(cmd.Context(), productID)
		if err != nil {
			return err
		}
		fmt.Println(resp.Message)
		return nil
	},
}

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Stream one page of products",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient()
		if err != nil {
			return err
		}
		defer c.Close()

		n, err := c.StreamProducts(cmd.Context(),
			&pb.GetProductsRequest{Page: page, PageSize: pageSize, Category: category},
			func(p *pb.Product) error {
				printProduct(p)
				return nil
			})
		if err != nil {
			return err
		}
		fmt.Printf("received: %d\n", n)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVarP(&serverAddr, "addr", "a", "", "Server address (overrides config)")

	for _, cmd := range []*cobra.Command{listCmd, streamCmd} {
		cmd.Flags().Int32VarP(&page, "page", "p", 1, "Page number")
		cmd.Flags().Int32VarP(&pageSize, "page-size", "s", 10, "Products per page")
		cmd.Flags().StringVar(&category, "category", "", "Category filter")
	}

	for _, cmd := range []*cobra.Command{getCmd, updateCmd, deleteCmd} {
		cmd.Flags().Int64VarP(&productID, "id", "i", 0, "Product ID")
	}

	for _, cmd := range []*cobra.Command{createCmd, updateCmd} {
		cmd.Flags().StringVarP(&name, "name", "n", "", "Product name")
		cmd.Flags().StringVarP(&description, "description", "d", "", "Product description")
		cmd.Flags().Int64Var(&price, "price", 0, "Product price")
		cmd.Flags().StringVar(&category, "category", "", "Product category")
		cmd.Flags().Int64Var(&stock, "stock", 0, "Units in stock")
	}

	rootCmd.AddCommand(listCmd, getCmd, createCmd, updateCmd, deleteCmd, streamCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
